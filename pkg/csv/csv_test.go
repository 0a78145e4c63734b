package csv

import (
	"strings"
	"testing"
	"time"

	"github.com/fquiros/budgeteer/pkg/models"
)

func tx(date, description string, amount float64) *models.Transaction {
	d, _ := time.Parse("2006-01-02", date)
	return &models.Transaction{Date: d, Description: description, Amount: amount, Category: models.DefaultCategory}
}

func TestCreate(t *testing.T) {
	out := string(Create([]*models.Transaction{
		tx("2024-01-15", "JOES DINER", 23.45),
		tx("2024-01-16", "WHOLE FOODS, INC", 10),
	}, nil))

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Date,Description,Amount,Category" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "2024-01-15,JOES DINER,23.45,Uncategorized" {
		t.Errorf("unexpected row %q", lines[1])
	}
	// Commas in descriptions must be quoted.
	if lines[2] != `2024-01-16,"WHOLE FOODS, INC",10.00,Uncategorized` {
		t.Errorf("unexpected row %q", lines[2])
	}
}

func TestCreateWithFilter(t *testing.T) {
	records := []*models.Transaction{
		tx("2024-01-15", "SMALL", 5),
		tx("2024-01-16", "BIG", 500),
	}

	out := string(Create(records, func(t *models.Transaction) bool { return t.Amount >= 100 }))
	if strings.Contains(out, "SMALL") {
		t.Error("filtered row should not appear in output")
	}
	if !strings.Contains(out, "BIG") {
		t.Error("expected unfiltered row in output")
	}
}
