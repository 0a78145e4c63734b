// Package importer turns parsed statement tables into validated
// transactions. Bad rows are dropped and reported per row; only missing
// mapped columns fail a whole batch.
package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fquiros/budgeteer/pkg/cleaner"
	"github.com/fquiros/budgeteer/pkg/models"
	"github.com/fquiros/budgeteer/pkg/tabular"
)

// ColumnMap binds the logical transaction fields to column names from
// the statement header. Category is optional; when it is empty or the
// named column is absent, rows get models.DefaultCategory.
type ColumnMap struct {
	Date        string
	Description string
	Amount      string
	Category    string
}

// MappingError means a mapped column does not exist in the table
// header. The whole batch fails; nothing is ingested.
type MappingError struct {
	Column string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("column %q not found in file header", e.Column)
}

// RowError records one dropped row and why it was dropped.
type RowError struct {
	Line   int
	Reason string
}

// Result is the outcome of one successful ingest call. Records keeps
// the source row order. A result with zero records and all rows in
// RowErrors is still a success.
type Result struct {
	Records   []*models.Transaction
	RowErrors []RowError
}

// Dropped returns the number of rows excluded during cleaning.
func (r *Result) Dropped() int {
	return len(r.RowErrors)
}

// Importer normalizes statement tables. It holds no per-call state;
// concurrent Ingest calls are safe.
type Importer struct {
	logger *log.Logger
}

// New returns a new Importer.
func New(logger *log.Logger) *Importer {
	return &Importer{logger: logger}
}

// Ingest applies the per-row transforms to every row of the table and
// returns the valid transactions in source order, plus one RowError per
// dropped row. The table is never mutated. Rows are processed
// independently; no state crosses rows.
func (im *Importer) Ingest(table *tabular.Table, mapping ColumnMap) (*Result, error) {
	for _, col := range []string{mapping.Date, mapping.Description, mapping.Amount} {
		if !table.HasColumn(col) {
			return nil, &MappingError{Column: col}
		}
	}

	categoryColumn := mapping.Category
	if categoryColumn != "" && !table.HasColumn(categoryColumn) {
		// The original statement simply lacks the column; fall back to
		// the default category rather than failing the batch.
		im.logger.Debug("category column not in header, using default", "column", categoryColumn)
		categoryColumn = ""
	}

	result := &Result{Records: make([]*models.Transaction, 0, len(table.Rows))}
	for i, row := range table.Rows {
		line := i + 1
		record, reason := buildRecord(row, mapping, categoryColumn)
		if reason != "" {
			im.logger.Debug("row rejected", "line", line, "reason", reason)
			result.RowErrors = append(result.RowErrors, RowError{Line: line, Reason: reason})
			continue
		}
		result.Records = append(result.Records, record)
	}

	im.logger.Info("ingest complete", "valid", len(result.Records), "dropped", result.Dropped())
	return result, nil
}

func buildRecord(row tabular.Row, mapping ColumnMap, categoryColumn string) (*models.Transaction, string) {
	date, err := ParseDate(row[mapping.Date].String())
	if err != nil {
		return nil, err.Error()
	}

	raw := row[mapping.Description].String()
	description := cleaner.Normalize(raw)
	if description == "" {
		// Cleaning must never erase a real description.
		description = strings.TrimSpace(raw)
	}
	if description == "" {
		return nil, "empty description"
	}

	amount, err := ParseAmount(row[mapping.Amount].String())
	if err != nil {
		return nil, err.Error()
	}

	category := models.DefaultCategory
	if categoryColumn != "" {
		if value := strings.TrimSpace(row[categoryColumn].String()); value != "" {
			category = value
		}
	}

	return &models.Transaction{
		Date:           date,
		RawDescription: raw,
		Description:    description,
		Amount:         amount,
		Category:       category,
	}, ""
}

// Date layouts tried in order. Month-first comes before day-first, as
// on US statements; day-first still wins for dates like 25/12/2024
// that cannot be month-first.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"01-02-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2006-01-02 15:04:05",
}

// ParseDate parses a statement date into a calendar date, trying the
// known layouts in order.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

// ParseAmount parses a statement amount into a positive magnitude.
// Currency symbols and thousands separators are stripped and
// parenthesized accounting negatives are honored before the sign is
// discarded. Zero and non-finite values are rejected.
func ParseAmount(value string) (float64, error) {
	cleaned := strings.ReplaceAll(value, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "-")
	cleaned = strings.ReplaceAll(cleaned, ")", "")
	cleaned = strings.TrimSpace(cleaned)

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable amount %q", value)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("amount %q is not finite", value)
	}

	amount = math.Abs(amount)
	if amount == 0 {
		return 0, fmt.Errorf("amount must be greater than zero")
	}
	return amount, nil
}
