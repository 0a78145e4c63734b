// Package store persists transactions and net worth items in a local
// SQLite database. The store owns record identity; everything upstream
// hands it ownerless records.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fquiros/budgeteer/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT NOT NULL,
	description TEXT NOT NULL,
	amount REAL NOT NULL,
	category TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS net_worth_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	item_type TEXT NOT NULL,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	amount REAL NOT NULL,
	notes TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

const timestampLayout = "2006-01-02 15:04:05"

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema
// exists. Use ":memory:" for an ephemeral database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert persists one transaction and returns its assigned id.
func (s *Store) Insert(t *models.Transaction) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO transactions (date, description, amount, category) VALUES (?, ?, ?, ?)`,
		t.DateISO(), t.Description, t.Amount, t.Category,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return id, nil
}

// BulkInsert persists a whole import batch inside a single SQL
// transaction and returns the number of rows inserted.
func (s *Store) BulkInsert(records []*models.Transaction) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO transactions (date, description, amount, category) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, record := range records {
		if _, err := stmt.Exec(record.DateISO(), record.Description, record.Amount, record.Category); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to insert record %d: %w", count+1, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return count, nil
}

// List returns all transactions, newest date first.
func (s *Store) List() ([]*models.Transaction, error) {
	rows, err := s.db.Query(`
		SELECT id, date, description, amount, category, created_at
		FROM transactions
		ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		var date string
		var createdAt sql.NullString
		if err := rows.Scan(&t.ID, &date, &t.Description, &t.Amount, &t.Category, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if t.Date, err = time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("stored date %q is not ISO: %w", date, err)
		}
		if createdAt.Valid {
			t.CreatedAt, _ = time.Parse(timestampLayout, createdAt.String)
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}

// Update rewrites an existing transaction.
func (s *Store) Update(t *models.Transaction) error {
	result, err := s.db.Exec(
		`UPDATE transactions SET date = ?, description = ?, amount = ?, category = ? WHERE id = ?`,
		t.DateISO(), t.Description, t.Amount, t.Category, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %d: %w", t.ID, err)
	}
	return requireRow(result, t.ID)
}

// Delete removes one transaction by id.
func (s *Store) Delete(id int64) error {
	result, err := s.db.Exec(`DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}
	return requireRow(result, id)
}

// Clear removes every transaction.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}
	return nil
}

func requireRow(result sql.Result, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("no transaction with id %d", id)
	}
	return nil
}
