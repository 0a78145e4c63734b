package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// FormatError means the file could not be read as tabular data at all:
// unrecognized extension or a byte stream the format reader rejects.
// Nothing is ingested when a FormatError is returned.
type FormatError struct {
	Filename string
	Reason   string
	Err      error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Filename, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Filename, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

const maxXLSRows = 10000

// Parse reads statement bytes into a Table. The format is selected by
// file extension only; there is no content sniffing.
func Parse(data []byte, filename string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(data, filename)
	case ".xlsx":
		return parseXLSX(data, filename)
	case ".xls":
		return parseXLS(data, filename)
	default:
		return nil, &FormatError{Filename: filename, Reason: "unsupported file type, expected .csv, .xlsx or .xls"}
	}
}

func parseCSV(data []byte, filename string) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // allow ragged rows, validated downstream

	records, err := r.ReadAll()
	if err != nil {
		return nil, &FormatError{Filename: filename, Reason: "failed to read csv", Err: err}
	}
	if len(records) == 0 {
		return nil, &FormatError{Filename: filename, Reason: "file has no header row"}
	}

	return fromStringRows(records), nil
}

func parseXLSX(data []byte, filename string) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &FormatError{Filename: filename, Reason: "failed to open workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &FormatError{Filename: filename, Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &FormatError{Filename: filename, Reason: "failed to read sheet", Err: err}
	}
	if len(rows) == 0 {
		return nil, &FormatError{Filename: filename, Reason: "file has no header row"}
	}

	return fromStringRows(rows), nil
}

func parseXLS(data []byte, filename string) (*Table, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, &FormatError{Filename: filename, Reason: "failed to open workbook", Err: err}
	}

	rows := workbook.ReadAllCells(maxXLSRows)
	if len(rows) == 0 {
		return nil, &FormatError{Filename: filename, Reason: "file has no header row"}
	}

	return fromStringRows(rows), nil
}
