// Package service wires file reading, ingestion and storage together
// for the CLI and the HTTP server.
package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/fquiros/budgeteer/pkg/importer"
	"github.com/fquiros/budgeteer/pkg/store"
	"github.com/fquiros/budgeteer/pkg/tabular"
)

// Processor runs the import flow: read file, parse to a table, ingest,
// hand the batch to the store.
type Processor struct {
	logger   *log.Logger
	importer *importer.Importer
	store    *store.Store
}

// NewProcessor returns a new Processor backed by the given store. The
// store may be nil for preview-only use.
func NewProcessor(logger *log.Logger, st *store.Store) *Processor {
	return &Processor{
		logger:   logger,
		importer: importer.New(logger),
		store:    st,
	}
}

// Preview parses and ingests statement bytes without touching the
// store. Used for dry runs and the upload preview.
func (p *Processor) Preview(data []byte, filename string, mapping importer.ColumnMap) (*importer.Result, error) {
	table, err := tabular.Parse(data, filename)
	if err != nil {
		return nil, err
	}
	return p.importer.Ingest(table, mapping)
}

// ImportFile reads one statement file, ingests it, and commits the
// valid records to the store as a single batch. It returns the ingest
// result and the number of rows inserted.
func (p *Processor) ImportFile(path string, mapping importer.ColumnMap) (*importer.Result, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read file: %w", err)
	}

	result, err := p.Preview(data, filepath.Base(path), mapping)
	if err != nil {
		return nil, 0, err
	}

	inserted, err := p.store.BulkInsert(result.Records)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to store batch: %w", err)
	}

	p.logger.Info("imported file", "file", path, "inserted", inserted, "dropped", result.Dropped())
	return result, inserted, nil
}

// ImportDirectory imports every supported statement file in a
// directory. Per-file failures are logged and skipped so one bad file
// does not stop the rest.
func (p *Processor) ImportDirectory(dir string, mapping importer.ColumnMap) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !supportedFile(entry.Name()) {
			continue
		}
		if _, _, err := p.ImportFile(filepath.Join(dir, entry.Name()), mapping); err != nil {
			p.logger.Error("failed to import file", "file", entry.Name(), "error", err)
		}
	}
	return nil
}

func supportedFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xls", ".xlsx":
		return true
	}
	return false
}
