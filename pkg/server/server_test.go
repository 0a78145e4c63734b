package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fquiros/budgeteer/pkg/config"
	"github.com/fquiros/budgeteer/pkg/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	s := New(&config.Config{}, log.Default(), st)
	s.setupRoutes()
	return s
}

func uploadRequest(t *testing.T, content string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("statement", "statement.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/process", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

var defaultFields = map[string]string{
	"date_column":        "Date",
	"description_column": "Description",
	"amount_column":      "Amount",
}

const statementCSV = `Date,Description,Amount
01/15/2024,TST*JOES DINER,$23.45
bad-date,X,$5
01/16/2024,POS WALMART,(10.00)
`

func TestHandleProcess(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, uploadRequest(t, statementCSV, defaultFields))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status  string `json:"status"`
		File    string `json:"file"`
		Dropped int    `json:"dropped"`
		Data    []struct {
			Date           string  `json:"date"`
			Description    string  `json:"description"`
			RawDescription string  `json:"raw_description"`
			Amount         float64 `json:"amount"`
			Category       string  `json:"category"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 1, resp.Dropped)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "2024-01-15", resp.Data[0].Date)
	assert.Equal(t, "JOES DINER", resp.Data[0].Description)
	assert.Equal(t, "TST*JOES DINER", resp.Data[0].RawDescription)
	assert.Equal(t, 23.45, resp.Data[0].Amount)
	assert.Equal(t, "Uncategorized", resp.Data[0].Category)
}

func TestHandleProcessBadMapping(t *testing.T) {
	s := newTestServer(t)

	fields := map[string]string{
		"date_column":        "Date",
		"description_column": "Description",
		"amount_column":      "Value",
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, uploadRequest(t, statementCSV, fields))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Value")
}

func TestHandleApply(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, uploadRequest(t, statementCSV, defaultFields))
	require.Equal(t, http.StatusOK, rec.Code)

	applyReq := httptest.NewRequest(http.MethodPost, "/api/apply", strings.NewReader("file=statement.csv"))
	applyReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, applyReq)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status   string `json:"status"`
		Inserted int    `json:"inserted"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "applied", resp.Status)
	assert.Equal(t, 2, resp.Inserted)

	// A second apply of the same staged batch must fail: staging is
	// consumed on apply.
	applyReq = httptest.NewRequest(http.MethodPost, "/api/apply", strings.NewReader("file=statement.csv"))
	applyReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, applyReq)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	listReq := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, listReq)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "WALMART")
}

func TestHandleTransactionsCSV(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?format=csv", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Date,Description,Amount,Category"))
}
