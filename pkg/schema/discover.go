package schema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDiscoverer reads the sandbox schema from information_schema.
type PostgresDiscoverer struct {
	pool *pgxpool.Pool
}

// NewPostgresDiscoverer wraps an existing pool. The pool is not closed by
// the discoverer.
func NewPostgresDiscoverer(pool *pgxpool.Pool) *PostgresDiscoverer {
	return &PostgresDiscoverer{pool: pool}
}

// DiscoverTables returns all user tables in the public schema with their
// columns in ordinal order, including primary and foreign key markers.
func (d *PostgresDiscoverer) DiscoverTables(ctx context.Context) ([]Table, error) {
	const query = `
		SELECT
			c.table_name,
			c.column_name,
			c.data_type,
			c.is_nullable = 'YES' as is_nullable,
			COALESCE(pk.is_pk, false) as is_primary_key,
			COALESCE(fk.is_fk, false) as is_foreign_key
		FROM information_schema.columns c
		JOIN information_schema.tables t
			ON t.table_schema = c.table_schema
			AND t.table_name = c.table_name
			AND t.table_type = 'BASE TABLE'
		LEFT JOIN (
			SELECT kcu.table_name, kcu.column_name, true as is_pk
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			WHERE tc.constraint_type = 'PRIMARY KEY'
			  AND tc.table_schema = 'public'
		) pk ON pk.table_name = c.table_name AND pk.column_name = c.column_name
		LEFT JOIN (
			SELECT kcu.table_name, kcu.column_name, true as is_fk
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			WHERE tc.constraint_type = 'FOREIGN KEY'
			  AND tc.table_schema = 'public'
		) fk ON fk.table_name = c.table_name AND fk.column_name = c.column_name
		WHERE c.table_schema = 'public'
		ORDER BY c.table_name, c.ordinal_position
	`

	rows, err := d.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query schema: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]*Table)
	var order []string
	for rows.Next() {
		var col Column
		if err := rows.Scan(&col.Table, &col.Name, &col.DataType, &col.Nullable, &col.IsPrimaryKey, &col.IsForeignKey); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}

		t, ok := byName[col.Table]
		if !ok {
			t = &Table{Name: col.Table}
			byName[col.Table] = t
			order = append(order, col.Table)
		}
		t.Columns = append(t.Columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schema: %w", err)
	}

	tables := make([]Table, 0, len(order))
	for _, name := range order {
		tables = append(tables, *byName[name])
	}
	return tables, nil
}

var _ Discoverer = (*PostgresDiscoverer)(nil)
