// Package tabular reads bank statement files into a uniform in-memory
// table. Cells carry a tagged value so downstream code converts
// explicitly instead of relying on whatever type a file format happened
// to produce.
package tabular

import (
	"strconv"
	"strings"
)

// CellKind tags the value stored in a Cell.
type CellKind int

const (
	KindEmpty CellKind = iota
	KindText
	KindNumber
)

// Cell is a single tagged table value.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// TextCell returns a text cell, or an empty cell for the empty string.
func TextCell(s string) Cell {
	if s == "" {
		return Cell{Kind: KindEmpty}
	}
	return Cell{Kind: KindText, Text: s}
}

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell {
	return Cell{Kind: KindNumber, Number: f}
}

// String renders the cell the way it would appear in a statement:
// numbers without a trailing zero tail, empty cells as "".
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Row maps a column name to the cell sourced from the file.
type Row map[string]Cell

// Table is one fully materialized statement file: an ordered header and
// the data rows below it. Tables are never mutated after parsing.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the header contains the named column.
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// fromStringRows builds a Table from a header row plus raw string rows,
// which is what all three file readers produce. Rows shorter than the
// header get empty cells for the missing columns.
func fromStringRows(records [][]string) *Table {
	table := &Table{Columns: make([]string, len(records[0]))}
	for i, name := range records[0] {
		table.Columns[i] = strings.TrimSpace(name)
	}

	for _, record := range records[1:] {
		row := make(Row, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(record) {
				row[col] = TextCell(record[i])
			} else {
				row[col] = Cell{Kind: KindEmpty}
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
