package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/querygym/querygym-engine/pkg/database"
)

// QueryResult is the tabular outcome of one sandbox execution.
type QueryResult struct {
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
	RowCount int      `json:"rowCount"`

	// Truncated is set when the row cap cut the result short.
	Truncated bool `json:"truncated,omitempty"`

	// DurationMillis is wall-clock execution time.
	DurationMillis int64 `json:"durationMs"`
}

// QueryExecutor runs an already-validated query against the sandbox.
type QueryExecutor interface {
	Execute(ctx context.Context, query string) (*QueryResult, error)
}

// SandboxExecutor executes queries on the sandbox pool. The pool carries a
// server-side statement timeout; the executor additionally caps result
// size.
type SandboxExecutor struct {
	db      *database.DB
	maxRows int
	logger  *zap.Logger
}

// NewSandboxExecutor creates an executor over the sandbox pool. maxRows
// of 0 means no cap.
func NewSandboxExecutor(db *database.DB, maxRows int, logger *zap.Logger) *SandboxExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SandboxExecutor{db: db, maxRows: maxRows, logger: logger}
}

// Execute runs the query and collects rows up to the configured cap.
func (e *SandboxExecutor) Execute(ctx context.Context, query string) (*QueryResult, error) {
	start := time.Now()

	rows, err := e.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	result := &QueryResult{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		if e.maxRows > 0 && result.RowCount >= e.maxRows {
			result.Truncated = true
			break
		}
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		result.Rows = append(result.Rows, values)
		result.RowCount++
	}

	if !result.Truncated {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate rows: %w", err)
		}
	}

	result.DurationMillis = time.Since(start).Milliseconds()
	return result, nil
}

var _ QueryExecutor = (*SandboxExecutor)(nil)
