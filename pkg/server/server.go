// Package server exposes the import pipeline and the store over HTTP
// for local dashboard frontends.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/fquiros/budgeteer/pkg/config"
	"github.com/fquiros/budgeteer/pkg/csv"
	"github.com/fquiros/budgeteer/pkg/importer"
	"github.com/fquiros/budgeteer/pkg/models"
	"github.com/fquiros/budgeteer/pkg/report"
	"github.com/fquiros/budgeteer/pkg/service"
	"github.com/fquiros/budgeteer/pkg/store"
	"github.com/fquiros/budgeteer/pkg/tabular"
)

// Server handles HTTP requests for statement import and transaction
// queries. Uploaded batches are staged in memory until applied.
type Server struct {
	config    *config.Config
	logger    *log.Logger
	mux       *http.ServeMux
	processor *service.Processor
	store     *store.Store
	staged    sync.Map
}

// New creates a new HTTP server backed by the given store.
func New(cfg *config.Config, logger *log.Logger, st *store.Store) *Server {
	return &Server{
		config:    cfg,
		logger:    logger,
		mux:       http.NewServeMux(),
		processor: service.NewProcessor(logger, st),
		store:     st,
	}
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	s.setupRoutes()
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/process", s.withLogging(s.handleProcess))
	s.mux.HandleFunc("/api/apply", s.withLogging(s.handleApply))
	s.mux.HandleFunc("/api/transactions", s.withLogging(s.handleTransactions))
	s.mux.HandleFunc("/api/summary", s.withLogging(s.handleSummary))
	s.mux.HandleFunc("/api/networth", s.withLogging(s.handleNetWorth))
}

// transactionJSON is the wire shape of one record in responses.
type transactionJSON struct {
	Date           string  `json:"date"`
	Description    string  `json:"description"`
	RawDescription string  `json:"raw_description,omitempty"`
	Amount         float64 `json:"amount"`
	Category       string  `json:"category"`
}

func toJSON(records []*models.Transaction, includeRaw bool) []transactionJSON {
	out := make([]transactionJSON, len(records))
	for i, t := range records {
		out[i] = transactionJSON{
			Date:        t.DateISO(),
			Description: t.Description,
			Amount:      t.Amount,
			Category:    t.Category,
		}
		if includeRaw {
			out[i].RawDescription = t.RawDescription
		}
	}
	return out
}

// handleProcess ingests an uploaded statement and stages the valid
// records for a later apply. Nothing is stored yet; the response is the
// before/after preview.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	file, header, err := r.FormFile("statement")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "statement file required", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to read file", err)
		return
	}

	mapping := importer.ColumnMap{
		Date:        r.FormValue("date_column"),
		Description: r.FormValue("description_column"),
		Amount:      r.FormValue("amount_column"),
		Category:    r.FormValue("category_column"),
	}
	if mapping.Date == "" || mapping.Description == "" || mapping.Amount == "" {
		s.respondError(w, r, http.StatusBadRequest, "date_column, description_column and amount_column are required", nil)
		return
	}

	result, err := s.processor.Preview(data, header.Filename, mapping)
	if err != nil {
		var formatErr *tabular.FormatError
		var mappingErr *importer.MappingError
		if errors.As(err, &formatErr) || errors.As(err, &mappingErr) {
			s.respondError(w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}
		s.respondError(w, r, http.StatusInternalServerError, "failed to process file", err)
		return
	}

	s.staged.Store(header.Filename, result.Records)
	s.logger.Info("staged upload", "file", header.Filename, "valid", len(result.Records), "dropped", result.Dropped())

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"file":       header.Filename,
		"data":       toJSON(result.Records, true),
		"dropped":    result.Dropped(),
		"row_errors": result.RowErrors,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// handleApply commits a previously staged batch to the store.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	filename := r.FormValue("file")
	if filename == "" {
		s.respondError(w, r, http.StatusBadRequest, "file required", nil)
		return
	}

	value, ok := s.staged.LoadAndDelete(filename)
	if !ok {
		s.respondError(w, r, http.StatusNotFound, "no staged upload for file", nil)
		return
	}
	records, ok := value.([]*models.Transaction)
	if !ok {
		s.respondError(w, r, http.StatusInternalServerError, "internal type assertion error", nil)
		return
	}

	inserted, err := s.store.BulkInsert(records)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to store batch", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "applied",
		"inserted": inserted,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// handleTransactions serves stored transactions as JSON, or CSV when
// format=csv is requested.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	transactions, err := s.store.List()
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to list transactions", err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
		if _, err := w.Write(csv.Create(transactions, nil)); err != nil {
			s.logger.Warn("failed to write csv response", "err", err)
		}
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   toJSON(transactions, false),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	transactions, err := s.store.List()
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to list transactions", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"summary": report.Summarize(transactions),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	items, err := s.store.ListNetWorthItems()
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to list net worth items", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"items":     items,
		"net_worth": report.ComputeNetWorth(items),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// --- helpers ---

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log request start/end and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
