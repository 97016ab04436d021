//go:build integration

package schema_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querygym/querygym-engine/pkg/schema"
	"github.com/querygym/querygym-engine/pkg/testhelpers"
)

func TestPostgresDiscovererAgainstRealDatabase(t *testing.T) {
	sandbox := testhelpers.GetSandboxDB(t)

	discoverer := schema.NewPostgresDiscoverer(sandbox.Pool)
	tables, err := discoverer.DiscoverTables(context.Background())
	require.NoError(t, err)

	byName := make(map[string]schema.Table, len(tables))
	for _, table := range tables {
		byName[table.Name] = table
	}

	users, ok := byName["users"]
	require.True(t, ok, "expected users table to be discovered")
	orders, ok := byName["orders"]
	require.True(t, ok, "expected orders table to be discovered")

	userCols := make(map[string]schema.Column, len(users.Columns))
	for _, col := range users.Columns {
		userCols[col.Name] = col
	}
	assert.True(t, userCols["id"].IsPrimaryKey)
	assert.False(t, userCols["id"].Nullable)
	assert.Equal(t, "users", userCols["email"].Table)

	orderCols := make(map[string]schema.Column, len(orders.Columns))
	for _, col := range orders.Columns {
		orderCols[col.Name] = col
	}
	assert.True(t, orderCols["user_id"].IsForeignKey)
	assert.Equal(t, "numeric", orderCols["total"].DataType)
}
