package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/querygym/querygym-engine/pkg/apperrors"
	"github.com/querygym/querygym-engine/pkg/autocomplete"
	"github.com/querygym/querygym-engine/pkg/metrics"
	"github.com/querygym/querygym-engine/pkg/schema"
)

// SchemaCache is the cache surface the handler needs: read the snapshot
// and force a rebuild.
type SchemaCache interface {
	Snapshot() *schema.Snapshot
	Refresh(ctx context.Context) error
}

// ProblemSchemaSource loads a problem's setup SQL for problem-scoped
// schema responses.
type ProblemSchemaSource interface {
	GetSetupSQL(ctx context.Context, problemID string) (string, error)
}

// AutocompleteHandler serves completion and schema inspection endpoints.
type AutocompleteHandler struct {
	engine   *autocomplete.Engine
	cache    SchemaCache
	problems ProblemSchemaSource
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewAutocompleteHandler creates the handler. problems may be nil when no
// metadata store is configured; problem-scoped schema requests then fall
// back to the global cache.
func NewAutocompleteHandler(
	engine *autocomplete.Engine,
	cache SchemaCache,
	problems ProblemSchemaSource,
	m *metrics.Metrics,
	logger *zap.Logger,
) *AutocompleteHandler {
	return &AutocompleteHandler{
		engine:   engine,
		cache:    cache,
		problems: problems,
		metrics:  m,
		logger:   logger,
	}
}

// RegisterRoutes registers the handler's routes on the given mux.
func (h *AutocompleteHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /sql/autocomplete", h.Autocomplete)
	mux.HandleFunc("GET /sql/schema", h.Schema)
	mux.HandleFunc("GET /sql/schema/tables", h.Tables)
	mux.HandleFunc("POST /sql/schema/refresh", h.Refresh)
}

// autocompleteRequest uses pointer fields so missing or wrongly typed
// values are distinguishable and rejected with 400.
type autocompleteRequest struct {
	Query          *string  `json:"query"`
	CursorPosition *float64 `json:"cursorPosition"`
	ProblemID      string   `json:"problemId"`
}

// Autocomplete handles POST /sql/autocomplete.
func (h *AutocompleteHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	var req autocompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be JSON")
		return
	}
	if req.Query == nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "query must be a string")
		return
	}
	if req.CursorPosition == nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "cursorPosition must be a number")
		return
	}

	h.metrics.CompletionRequests.Inc()

	result := h.engine.Complete(*req.Query, int(*req.CursorPosition))
	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode autocomplete response", zap.Error(err))
	}
}

// schemaResponse is the problem-scoped (or global) schema payload.
type schemaResponse struct {
	Success bool       `json:"success"`
	Schema  schemaBody `json:"schema"`
}

type schemaBody struct {
	Tables   []schema.Table `json:"tables"`
	SetupSQL string         `json:"setupSql,omitempty"`
}

// Schema handles GET /sql/schema. With a problemId query parameter the
// response is scoped to that problem's setup SQL; otherwise, and on any
// problem lookup failure, it falls back to the global cache.
func (h *AutocompleteHandler) Schema(w http.ResponseWriter, r *http.Request) {
	problemID := r.URL.Query().Get("problemId")

	if problemID != "" && h.problems != nil {
		setupSQL, err := h.problems.GetSetupSQL(r.Context(), problemID)
		if err == nil {
			h.writeSchema(w, schemaBody{
				Tables:   schema.ParseProblemSchema(setupSQL),
				SetupSQL: setupSQL,
			})
			return
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			h.logger.Warn("Problem schema lookup failed, serving global schema",
				zap.String("problem_id", problemID),
				zap.Error(err))
		}
	}

	h.writeSchema(w, schemaBody{Tables: h.snapshotTables()})
}

func (h *AutocompleteHandler) writeSchema(w http.ResponseWriter, body schemaBody) {
	if err := WriteJSON(w, http.StatusOK, schemaResponse{Success: true, Schema: body}); err != nil {
		h.logger.Error("Failed to encode schema response", zap.Error(err))
	}
}

func (h *AutocompleteHandler) snapshotTables() []schema.Table {
	snap := h.cache.Snapshot()
	tables := make([]schema.Table, 0, len(snap.Tables))
	for _, name := range snap.TableNames() {
		tables = append(tables, snap.Tables[name])
	}
	return tables
}

// tableSummary is one entry of the full cache dump.
type tableSummary struct {
	Name        string          `json:"name"`
	ColumnCount int             `json:"columnCount"`
	Columns     []schema.Column `json:"columns"`
}

type tablesResponse struct {
	Success      bool           `json:"success"`
	Tables       []tableSummary `json:"tables"`
	TotalTables  int            `json:"totalTables"`
	TotalColumns int            `json:"totalColumns"`
	LastUpdate   time.Time      `json:"lastUpdate"`
}

// Tables handles GET /sql/schema/tables, dumping the full cache.
func (h *AutocompleteHandler) Tables(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, h.tablesDump()); err != nil {
		h.logger.Error("Failed to encode tables response", zap.Error(err))
	}
}

// Refresh handles POST /sql/schema/refresh.
func (h *AutocompleteHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Refresh(r.Context()); err != nil {
		h.metrics.SchemaRefreshes.WithLabelValues("error").Inc()
		_ = ErrorResponse(w, http.StatusBadGateway, "refresh_failed", "schema refresh failed; previous snapshot retained")
		return
	}

	h.metrics.SchemaRefreshes.WithLabelValues("success").Inc()
	if err := WriteJSON(w, http.StatusOK, h.tablesDump()); err != nil {
		h.logger.Error("Failed to encode refresh response", zap.Error(err))
	}
}

func (h *AutocompleteHandler) tablesDump() tablesResponse {
	snap := h.cache.Snapshot()

	names := make([]string, 0, len(snap.Tables))
	for name := range snap.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := tablesResponse{
		Success:    true,
		Tables:     make([]tableSummary, 0, len(names)),
		LastUpdate: snap.LastUpdate,
	}
	for _, name := range names {
		t := snap.Tables[name]
		resp.Tables = append(resp.Tables, tableSummary{
			Name:        t.Name,
			ColumnCount: len(t.Columns),
			Columns:     t.Columns,
		})
		resp.TotalColumns += len(t.Columns)
	}
	resp.TotalTables = len(resp.Tables)
	return resp
}
