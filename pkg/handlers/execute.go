package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/querygym/querygym-engine/pkg/analysis"
	"github.com/querygym/querygym-engine/pkg/middleware"
	"github.com/querygym/querygym-engine/pkg/services"
	"github.com/querygym/querygym-engine/pkg/sqlcheck"
)

// QueryRunner is the execution pipeline surface the handler depends on.
type QueryRunner interface {
	Run(ctx context.Context, query, clientKey string) services.ExecutionOutcome
}

// ExecuteHandler serves practice query execution.
type ExecuteHandler struct {
	runner QueryRunner
	logger *zap.Logger
}

// NewExecuteHandler creates the handler.
func NewExecuteHandler(runner QueryRunner, logger *zap.Logger) *ExecuteHandler {
	return &ExecuteHandler{runner: runner, logger: logger}
}

// RegisterRoutes registers the handler's routes on the given mux.
func (h *ExecuteHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /sql/execute", h.Execute)
}

type executeRequest struct {
	Query *string `json:"query"`
}

// executeResponse carries one of three shapes: a rejection (violations and
// risk level), a successful result, or a failure diagnosis.
type executeResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId"`

	Violations []string           `json:"violations,omitempty"`
	RiskLevel  sqlcheck.RiskLevel `json:"riskLevel,omitempty"`

	Result *services.QueryResult `json:"result,omitempty"`

	Analysis            *analysis.Analysis `json:"analysis,omitempty"`
	LearningSuggestions []string           `json:"learningSuggestions,omitempty"`
}

// Execute handles POST /sql/execute. Rejected queries get 400 (429 when
// the rate limiter fired); admitted queries always get 200, with either
// the result rows or the failure diagnosis.
func (h *ExecuteHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be JSON")
		return
	}
	if req.Query == nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "query must be a string")
		return
	}

	outcome := h.runner.Run(r.Context(), *req.Query, middleware.ClientIP(r))

	if !outcome.Validation.IsValid {
		status := http.StatusBadRequest
		if outcome.RateLimited {
			status = http.StatusTooManyRequests
		}
		h.write(w, status, executeResponse{
			Success:    false,
			SessionID:  outcome.SessionID,
			Violations: outcome.Validation.Violations,
			RiskLevel:  outcome.Validation.RiskLevel,
		})
		return
	}

	if outcome.Analysis != nil {
		h.write(w, http.StatusOK, executeResponse{
			Success:             false,
			SessionID:           outcome.SessionID,
			Analysis:            outcome.Analysis,
			LearningSuggestions: outcome.LearningSuggestions,
		})
		return
	}

	h.write(w, http.StatusOK, executeResponse{
		Success:   true,
		SessionID: outcome.SessionID,
		Result:    outcome.Result,
	})
}

func (h *ExecuteHandler) write(w http.ResponseWriter, status int, resp executeResponse) {
	if err := WriteJSON(w, status, resp); err != nil {
		h.logger.Error("Failed to encode execute response", zap.Error(err))
	}
}
