package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/querygym/querygym-engine/pkg/apperrors"
	"github.com/querygym/querygym-engine/pkg/autocomplete"
	"github.com/querygym/querygym-engine/pkg/metrics"
	"github.com/querygym/querygym-engine/pkg/schema"
)

type fakeCache struct {
	snap       *schema.Snapshot
	refreshErr error
	refreshed  int
}

func (f *fakeCache) Snapshot() *schema.Snapshot {
	return f.snap
}

func (f *fakeCache) Refresh(ctx context.Context) error {
	f.refreshed++
	return f.refreshErr
}

type fakeProblems struct {
	setupSQL string
	err      error
}

func (f *fakeProblems) GetSetupSQL(ctx context.Context, problemID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.setupSQL, nil
}

func newFakeCache() *fakeCache {
	tables := []schema.Table{
		{Name: "users", Columns: []schema.Column{
			{Name: "id", Table: "users", DataType: "integer", IsPrimaryKey: true},
			{Name: "email", Table: "users", DataType: "text", Nullable: true},
		}},
		{Name: "orders", Columns: []schema.Column{
			{Name: "id", Table: "orders", DataType: "integer", IsPrimaryKey: true},
		}},
	}
	return &fakeCache{snap: schema.NewSnapshot(tables, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))}
}

func newAutocompleteHandler(cache *fakeCache, problems ProblemSchemaSource) *AutocompleteHandler {
	return NewAutocompleteHandler(
		autocomplete.NewEngine(cache),
		cache,
		problems,
		metrics.New(),
		zap.NewNop(),
	)
}

func serve(h *AutocompleteHandler, r *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, r)
	return rec
}

func TestAutocompleteEndpoint(t *testing.T) {
	h := newAutocompleteHandler(newFakeCache(), nil)

	body := `{"query": "SELECT * FROM ord", "cursorPosition": 17}`
	req := httptest.NewRequest(http.MethodPost, "/sql/autocomplete", strings.NewReader(body))
	rec := serve(h, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result autocomplete.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	require.NotEmpty(t, result.Completions)
	assert.Equal(t, "orders", result.Completions[0].Text)
}

func TestAutocompleteEndpointRejectsBadTypes(t *testing.T) {
	h := newAutocompleteHandler(newFakeCache(), nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "query is a number", body: `{"query": 42, "cursorPosition": 0}`},
		{name: "cursorPosition is a string", body: `{"query": "SELECT", "cursorPosition": "5"}`},
		{name: "missing query", body: `{"cursorPosition": 5}`},
		{name: "missing cursorPosition", body: `{"query": "SELECT"}`},
		{name: "not json", body: `SELECT * FROM users`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/sql/autocomplete", strings.NewReader(tt.body))
			rec := serve(h, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSchemaEndpointGlobal(t *testing.T) {
	h := newAutocompleteHandler(newFakeCache(), nil)

	req := httptest.NewRequest(http.MethodGet, "/sql/schema", nil)
	rec := serve(h, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Schema  struct {
			Tables   []schema.Table `json:"tables"`
			SetupSQL string         `json:"setupSql"`
		} `json:"schema"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Schema.Tables, 2)
	assert.Empty(t, resp.Schema.SetupSQL)
}

func TestSchemaEndpointProblemScoped(t *testing.T) {
	setupSQL := "CREATE TABLE pets (id SERIAL PRIMARY KEY, name TEXT NOT NULL);"
	h := newAutocompleteHandler(newFakeCache(), &fakeProblems{setupSQL: setupSQL})

	req := httptest.NewRequest(http.MethodGet, "/sql/schema?problemId=7", nil)
	rec := serve(h, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Schema struct {
			Tables   []schema.Table `json:"tables"`
			SetupSQL string         `json:"setupSql"`
		} `json:"schema"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Schema.Tables, 1)
	assert.Equal(t, "pets", resp.Schema.Tables[0].Name)
	assert.Equal(t, setupSQL, resp.Schema.SetupSQL)
}

func TestSchemaEndpointUnknownProblemFallsBack(t *testing.T) {
	h := newAutocompleteHandler(newFakeCache(), &fakeProblems{err: apperrors.ErrNotFound})

	req := httptest.NewRequest(http.MethodGet, "/sql/schema?problemId=999", nil)
	rec := serve(h, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Schema struct {
			Tables []schema.Table `json:"tables"`
		} `json:"schema"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Schema.Tables, 2)
}

func TestTablesEndpoint(t *testing.T) {
	h := newAutocompleteHandler(newFakeCache(), nil)

	req := httptest.NewRequest(http.MethodGet, "/sql/schema/tables", nil)
	rec := serve(h, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success      bool      `json:"success"`
		TotalTables  int       `json:"totalTables"`
		TotalColumns int       `json:"totalColumns"`
		LastUpdate   time.Time `json:"lastUpdate"`
		Tables       []struct {
			Name        string `json:"name"`
			ColumnCount int    `json:"columnCount"`
		} `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.TotalTables)
	assert.Equal(t, 3, resp.TotalColumns)
	require.Len(t, resp.Tables, 2)
	assert.Equal(t, "orders", resp.Tables[0].Name)
	assert.Equal(t, 2, resp.Tables[1].ColumnCount)
	assert.Equal(t, 2026, resp.LastUpdate.Year())
}

func TestRefreshEndpoint(t *testing.T) {
	cache := newFakeCache()
	h := newAutocompleteHandler(cache, nil)

	req := httptest.NewRequest(http.MethodPost, "/sql/schema/refresh", nil)
	rec := serve(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, cache.refreshed)
}

func TestRefreshEndpointFailure(t *testing.T) {
	cache := newFakeCache()
	cache.refreshErr = errors.New("sandbox unreachable")
	h := newAutocompleteHandler(cache, nil)

	req := httptest.NewRequest(http.MethodPost, "/sql/schema/refresh", nil)
	rec := serve(h, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
