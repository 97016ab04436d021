// Package services holds the business logic between the HTTP surface and
// the validator, sandbox, and analysis packages.
package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/querygym/querygym-engine/pkg/analysis"
	"github.com/querygym/querygym-engine/pkg/metrics"
	"github.com/querygym/querygym-engine/pkg/schema"
	"github.com/querygym/querygym-engine/pkg/sqlcheck"
)

// rateLimitViolation is the validator's rate-limit violation message,
// matched to map the rejection to HTTP 429.
const rateLimitViolation = "Rate limit exceeded"

// SchemaSource provides the current schema snapshot for error context.
type SchemaSource interface {
	Snapshot() *schema.Snapshot
}

// ExecutionOutcome is the full result of one practice query attempt.
type ExecutionOutcome struct {
	// SessionID correlates the attempt across logs and the response.
	SessionID string

	// Validation always carries the validator verdict.
	Validation sqlcheck.ValidationResult

	// RateLimited marks a rejection caused by the rate limiter.
	RateLimited bool

	// Result is set when the query executed successfully.
	Result *QueryResult

	// Analysis and LearningSuggestions are set when execution failed.
	Analysis            *analysis.Analysis
	LearningSuggestions []string
}

// ExecutionService validates, executes, and diagnoses practice queries.
type ExecutionService struct {
	validator *sqlcheck.Validator
	executor  QueryExecutor
	analyzer  *analysis.Analyzer
	schemas   SchemaSource
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewExecutionService wires the execution pipeline.
func NewExecutionService(
	validator *sqlcheck.Validator,
	executor QueryExecutor,
	analyzer *analysis.Analyzer,
	schemas SchemaSource,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ExecutionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecutionService{
		validator: validator,
		executor:  executor,
		analyzer:  analyzer,
		schemas:   schemas,
		metrics:   m,
		logger:    logger,
	}
}

// Run takes a raw candidate query through validation, sandbox execution,
// and on failure, error analysis. clientKey identifies the caller for rate
// limiting; empty disables the rate check.
func (s *ExecutionService) Run(ctx context.Context, query, clientKey string) ExecutionOutcome {
	outcome := ExecutionOutcome{SessionID: uuid.NewString()}

	outcome.Validation = s.validator.ValidateQuery(query, clientKey)
	s.metrics.RecordValidation(outcome.Validation.IsValid, string(outcome.Validation.RiskLevel))

	if !outcome.Validation.IsValid {
		for _, v := range outcome.Validation.Violations {
			if v == rateLimitViolation {
				outcome.RateLimited = true
				s.metrics.RateLimitDenials.Inc()
			}
		}
		s.logger.Warn("Query rejected by validator",
			zap.String("session_id", outcome.SessionID),
			zap.String("client_key", clientKey),
			zap.String("risk_level", string(outcome.Validation.RiskLevel)),
			zap.Strings("violations", outcome.Validation.Violations),
			zap.String("query", sqlcheck.SanitizeForLogging(query)),
		)
		return outcome
	}

	// Advisory only: heuristic injection findings are logged, never used
	// to block an admitted query.
	for _, finding := range sqlcheck.CheckLiteralInjection(query) {
		s.logger.Warn("Injection heuristics flagged a string literal",
			zap.String("session_id", outcome.SessionID),
			zap.String("client_key", clientKey),
			zap.String("fingerprint", finding.Fingerprint),
			zap.String("query", sqlcheck.SanitizeForLogging(query)),
		)
	}

	result, err := s.executor.Execute(ctx, query)
	if err != nil {
		s.metrics.QueryExecutions.WithLabelValues("error").Inc()

		snap := s.schemas.Snapshot()
		a := s.analyzer.AnalyzeError(err.Error(), query, &analysis.SchemaContext{
			AvailableTables:  snap.TableNames(),
			AvailableColumns: snap.ColumnNames(),
		})
		outcome.Analysis = &a
		outcome.LearningSuggestions = analysis.LearningSuggestions(a.ErrorType)

		s.logger.Info("Query execution failed",
			zap.String("session_id", outcome.SessionID),
			zap.String("error_type", string(a.ErrorType)),
			zap.String("query", sqlcheck.SanitizeForLogging(query)),
		)
		return outcome
	}

	s.metrics.QueryExecutions.WithLabelValues("success").Inc()
	s.metrics.QueryDuration.Observe(float64(result.DurationMillis) / 1000)
	outcome.Result = result
	return outcome
}
