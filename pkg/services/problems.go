package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/querygym/querygym-engine/pkg/apperrors"
	"github.com/querygym/querygym-engine/pkg/database"
)

// ProblemService reads practice problems from the metadata store.
type ProblemService struct {
	db *database.DB
}

// NewProblemService creates a ProblemService over the metadata pool.
func NewProblemService(db *database.DB) *ProblemService {
	return &ProblemService{db: db}
}

// GetSetupSQL returns the schema setup script for a problem. Problems can
// be addressed by UUID or by their short numeric id.
func (s *ProblemService) GetSetupSQL(ctx context.Context, problemID string) (string, error) {
	return s.lookupColumn(ctx, problemID, "setup_sql")
}

// GetExpectedOutput returns the stored expected result for a problem, used
// to grade successful executions.
func (s *ProblemService) GetExpectedOutput(ctx context.Context, problemID string) (string, error) {
	return s.lookupColumn(ctx, problemID, "expected_output")
}

// lookupColumn fetches one column from problems by UUID or numeric id.
// The column name is always one of the fixed callers above, never user
// input.
func (s *ProblemService) lookupColumn(ctx context.Context, problemID, column string) (string, error) {
	var (
		value string
		err   error
	)

	if id, parseErr := uuid.Parse(problemID); parseErr == nil {
		err = s.db.QueryRow(ctx,
			fmt.Sprintf(`SELECT %s FROM problems WHERE id = $1`, column), id).Scan(&value)
	} else if numericID, parseErr := strconv.Atoi(problemID); parseErr == nil {
		err = s.db.QueryRow(ctx,
			fmt.Sprintf(`SELECT %s FROM problems WHERE numeric_id = $1`, column), numericID).Scan(&value)
	} else {
		return "", fmt.Errorf("problem id %q: %w", problemID, apperrors.ErrNotFound)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("problem %q: %w", problemID, apperrors.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("load problem %q: %w", problemID, err)
	}

	return value, nil
}
