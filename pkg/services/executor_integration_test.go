//go:build integration

package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/querygym/querygym-engine/pkg/database"
	"github.com/querygym/querygym-engine/pkg/services"
	"github.com/querygym/querygym-engine/pkg/testhelpers"
)

func TestSandboxExecutorAgainstRealDatabase(t *testing.T) {
	sandbox := testhelpers.GetSandboxDB(t)
	db := &database.DB{Pool: sandbox.Pool}

	executor := services.NewSandboxExecutor(db, 1000, zap.NewNop())

	result, err := executor.Execute(context.Background(), "SELECT name, email FROM users ORDER BY name")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email"}, result.Columns)
	assert.Equal(t, 3, result.RowCount)
	assert.False(t, result.Truncated)
	assert.Equal(t, "Alice", result.Rows[0][0])
}

func TestSandboxExecutorTruncatesLargeResults(t *testing.T) {
	sandbox := testhelpers.GetSandboxDB(t)
	db := &database.DB{Pool: sandbox.Pool}

	executor := services.NewSandboxExecutor(db, 2, zap.NewNop())

	result, err := executor.Execute(context.Background(), "SELECT id FROM users ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowCount)
	assert.True(t, result.Truncated)
}

func TestSandboxExecutorReturnsQueryErrors(t *testing.T) {
	sandbox := testhelpers.GetSandboxDB(t)
	db := &database.DB{Pool: sandbox.Pool}

	executor := services.NewSandboxExecutor(db, 1000, zap.NewNop())

	_, err := executor.Execute(context.Background(), "SELECT * FROM usrs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usrs")
}
