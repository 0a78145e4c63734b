package importer

import (
	"errors"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/fquiros/budgeteer/pkg/models"
	"github.com/fquiros/budgeteer/pkg/tabular"
)

func statementTable(rows ...tabular.Row) *tabular.Table {
	return &tabular.Table{
		Columns: []string{"date", "desc", "amt", "cat"},
		Rows:    rows,
	}
}

func row(date, desc, amt string) tabular.Row {
	return tabular.Row{
		"date": tabular.TextCell(date),
		"desc": tabular.TextCell(desc),
		"amt":  tabular.TextCell(amt),
		"cat":  tabular.Cell{Kind: tabular.KindEmpty},
	}
}

var mapping = ColumnMap{Date: "date", Description: "desc", Amount: "amt"}

func TestIngest(t *testing.T) {
	table := statementTable(
		row("01/15/2024", "TST*JOES DINER", "$23.45"),
		row("bad-date", "X", "$5"),
		row("01/16/2024", "POS WALMART", "(10.00)"),
	)

	importer := New(log.Default())
	result, err := importer.Ingest(table, mapping)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	if result.Dropped() != 1 {
		t.Errorf("expected 1 dropped row, got %d", result.Dropped())
	}

	assertRecord(t, result.Records[0], "2024-01-15", "JOES DINER", 23.45, "Uncategorized")
	assertRecord(t, result.Records[1], "2024-01-16", "WALMART", 10.00, "Uncategorized")

	if result.RowErrors[0].Line != 2 {
		t.Errorf("expected rejection on line 2, got line %d", result.RowErrors[0].Line)
	}
}

func TestIngestMissingColumn(t *testing.T) {
	table := statementTable(row("01/15/2024", "JOES DINER", "23.45"))

	importer := New(log.Default())
	result, err := importer.Ingest(table, ColumnMap{Date: "date", Description: "desc", Amount: "value"})

	var mappingErr *MappingError
	if !errors.As(err, &mappingErr) {
		t.Fatalf("expected MappingError, got %v", err)
	}
	if mappingErr.Column != "value" {
		t.Errorf("expected missing column \"value\", got %q", mappingErr.Column)
	}
	if result != nil {
		t.Errorf("expected nil result on mapping error, got %+v", result)
	}
}

func TestIngestAllRowsRejectedIsSuccess(t *testing.T) {
	table := statementTable(
		row("01/15/2024", "JOES DINER", "abc"),
		row("01/16/2024", "WALMART", "abc"),
	)

	importer := New(log.Default())
	result, err := importer.Ingest(table, mapping)
	if err != nil {
		t.Fatalf("expected success with zero records, got error: %v", err)
	}
	if len(result.Records) != 0 {
		t.Errorf("expected 0 records, got %d", len(result.Records))
	}
	if result.Dropped() != 2 {
		t.Errorf("expected 2 dropped rows, got %d", result.Dropped())
	}
}

func TestIngestPreservesOrder(t *testing.T) {
	table := statementTable(
		row("03/01/2024", "THIRD", "3.00"),
		row("01/01/2024", "FIRST", "1.00"),
		row("02/01/2024", "SECOND", "2.00"),
	)

	importer := New(log.Default())
	result, err := importer.Ingest(table, mapping)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	want := []string{"THIRD", "FIRST", "SECOND"}
	for i, desc := range want {
		if result.Records[i].Description != desc {
			t.Errorf("record %d: expected %q, got %q", i, desc, result.Records[i].Description)
		}
	}
}

func TestIngestNoDeduplication(t *testing.T) {
	table := statementTable(
		row("01/15/2024", "JOES DINER", "23.45"),
		row("01/15/2024", "JOES DINER", "23.45"),
	)

	importer := New(log.Default())
	first, err := importer.Ingest(table, mapping)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	second, err := importer.Ingest(table, mapping)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if len(first.Records) != 2 || len(second.Records) != 2 {
		t.Errorf("expected duplicate rows to survive both ingests, got %d and %d", len(first.Records), len(second.Records))
	}
}

func TestIngestCategoryColumn(t *testing.T) {
	withCategory := tabular.Row{
		"date": tabular.TextCell("01/15/2024"),
		"desc": tabular.TextCell("JOES DINER"),
		"amt":  tabular.TextCell("23.45"),
		"cat":  tabular.TextCell("  Food & Dining "),
	}
	table := statementTable(withCategory, row("01/16/2024", "WALMART", "10.00"))

	importer := New(log.Default())
	result, err := importer.Ingest(table, ColumnMap{Date: "date", Description: "desc", Amount: "amt", Category: "cat"})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if got := result.Records[0].Category; got != "Food & Dining" {
		t.Errorf("expected trimmed category, got %q", got)
	}
	if got := result.Records[1].Category; got != models.DefaultCategory {
		t.Errorf("expected default category for empty cell, got %q", got)
	}
}

func TestIngestCategoryColumnAbsentFromHeader(t *testing.T) {
	table := statementTable(row("01/15/2024", "JOES DINER", "23.45"))

	importer := New(log.Default())
	result, err := importer.Ingest(table, ColumnMap{Date: "date", Description: "desc", Amount: "amt", Category: "Category"})
	if err != nil {
		t.Fatalf("expected missing category column to fall back to default, got %v", err)
	}
	if got := result.Records[0].Category; got != models.DefaultCategory {
		t.Errorf("expected default category, got %q", got)
	}
}

func TestIngestDescriptionFallback(t *testing.T) {
	// Cleaning "POS" away would leave nothing, so the raw text is kept.
	table := statementTable(row("01/15/2024", "POS", "5.00"))

	importer := New(log.Default())
	result, err := importer.Ingest(table, mapping)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	if got := result.Records[0].Description; got != "POS" {
		t.Errorf("expected raw description fallback, got %q", got)
	}
}

func TestIngestNumberCells(t *testing.T) {
	table := statementTable(tabular.Row{
		"date": tabular.TextCell("2024-01-15"),
		"desc": tabular.TextCell("JOES DINER"),
		"amt":  tabular.NumberCell(23.45),
		"cat":  tabular.Cell{Kind: tabular.KindEmpty},
	})

	importer := New(log.Default())
	result, err := importer.Ingest(table, mapping)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if result.Records[0].Amount != 23.45 {
		t.Errorf("expected numeric cell amount 23.45, got %v", result.Records[0].Amount)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"$1,234.56", 1234.56, false},
		{"(45.00)", 45.00, false},
		{"12.5 ", 12.5, false},
		{"-88.10", 88.10, false},
		{"$ 7", 7, false},
		{"abc", 0, true},
		{"0.00", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"01/15/2024", "2024-01-15", false},
		{"2024-01-15", "2024-01-15", false},
		{"25/12/2024", "2024-12-25", false},
		{"Jan 2, 2024", "2024-01-02", false},
		{"2024/01/15", "2024-01-15", false},
		{"not a date", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q) failed: %v", tc.in, err)
			continue
		}
		if iso := got.Format("2006-01-02"); iso != tc.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tc.in, iso, tc.want)
		}
	}
}

func assertRecord(t *testing.T, record *models.Transaction, date, description string, amount float64, category string) {
	t.Helper()
	if record.DateISO() != date || record.Description != description ||
		record.Amount != amount || record.Category != category {
		t.Errorf("record mismatch:\nexpected: date=%s description=%q amount=%.2f category=%q\ngot:      date=%s description=%q amount=%.2f category=%q",
			date, description, amount, category,
			record.DateISO(), record.Description, record.Amount, record.Category)
	}
}
