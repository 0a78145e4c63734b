package models

import "time"

// DefaultCategory is assigned when a transaction has no category source.
const DefaultCategory = "Uncategorized"

// Transaction is a normalized transaction ready for storage. Amount is
// always an absolute magnitude; direction (debit vs credit) is not
// modeled and income is represented as a category value.
type Transaction struct {
	ID             int64
	Date           time.Time
	RawDescription string
	Description    string
	Amount         float64
	Category       string
	CreatedAt      time.Time
}

// DateISO returns the transaction date as YYYY-MM-DD.
func (t *Transaction) DateISO() string {
	return t.Date.Format("2006-01-02")
}

// Month returns the calendar month of the transaction as YYYY-MM.
func (t *Transaction) Month() string {
	return t.Date.Format("2006-01")
}
