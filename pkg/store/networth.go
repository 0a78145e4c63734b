package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fquiros/budgeteer/pkg/models"
)

// InsertNetWorthItem persists one asset or liability and returns its id.
func (s *Store) InsertNetWorthItem(item *models.NetWorthItem) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO net_worth_items (item_type, name, category, amount, notes) VALUES (?, ?, ?, ?, ?)`,
		item.ItemType, item.Name, item.Category, item.Amount, item.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert net worth item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return id, nil
}

// ListNetWorthItems returns all items grouped the way the net worth
// view presents them: type, then category, then name.
func (s *Store) ListNetWorthItems() ([]*models.NetWorthItem, error) {
	rows, err := s.db.Query(`
		SELECT id, item_type, name, category, amount, notes, created_at, updated_at
		FROM net_worth_items
		ORDER BY item_type, category, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query net worth items: %w", err)
	}
	defer rows.Close()

	var items []*models.NetWorthItem
	for rows.Next() {
		var item models.NetWorthItem
		var notes, createdAt, updatedAt sql.NullString
		if err := rows.Scan(&item.ID, &item.ItemType, &item.Name, &item.Category, &item.Amount, &notes, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan net worth item: %w", err)
		}
		item.Notes = notes.String
		if createdAt.Valid {
			item.CreatedAt, _ = time.Parse(timestampLayout, createdAt.String)
		}
		if updatedAt.Valid {
			item.UpdatedAt, _ = time.Parse(timestampLayout, updatedAt.String)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// UpdateNetWorthItem rewrites an existing item and bumps updated_at.
func (s *Store) UpdateNetWorthItem(item *models.NetWorthItem) error {
	result, err := s.db.Exec(
		`UPDATE net_worth_items SET name = ?, category = ?, amount = ?, notes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		item.Name, item.Category, item.Amount, item.Notes, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update net worth item %d: %w", item.ID, err)
	}
	return requireRow(result, item.ID)
}

// DeleteNetWorthItem removes one item by id.
func (s *Store) DeleteNetWorthItem(id int64) error {
	result, err := s.db.Exec(`DELETE FROM net_worth_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete net worth item %d: %w", id, err)
	}
	return requireRow(result, id)
}
