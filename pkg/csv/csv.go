// Package csv renders transactions as CSV for export.
package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/fquiros/budgeteer/pkg/models"
)

// FilterFunc decides whether a transaction is included in the export.
type FilterFunc func(*models.Transaction) bool

// Create renders the transactions that pass the filter as CSV bytes. A
// nil filter includes everything.
func Create(transactions []*models.Transaction, filter FilterFunc) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"Date", "Description", "Amount", "Category"})
	for _, t := range transactions {
		if filter == nil || filter(t) {
			w.Write([]string{
				t.DateISO(),
				t.Description,
				fmt.Sprintf("%.2f", t.Amount),
				t.Category,
			})
		}
	}
	w.Flush()
	return buf.Bytes()
}
