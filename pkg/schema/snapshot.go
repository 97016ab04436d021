// Package schema maintains an in-memory snapshot of the sandbox database
// schema. The snapshot feeds autocomplete suggestions and "did you mean"
// error analysis, so staleness is acceptable but a partially-built view is
// not: readers always see either the previous complete snapshot or the next
// one, never an intermediate state.
package schema

import (
	"sort"
	"time"
)

// Column describes one column of a discovered table.
type Column struct {
	Name         string `json:"name"`
	Table        string `json:"table"`
	DataType     string `json:"dataType"`
	Nullable     bool   `json:"nullable"`
	IsPrimaryKey bool   `json:"isPrimaryKey"`
	IsForeignKey bool   `json:"isForeignKey"`
}

// Table describes one discovered table and its columns in ordinal order.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Snapshot is one immutable view of the schema. Fields must not be mutated
// after the snapshot is published.
type Snapshot struct {
	Tables     map[string]Table
	Columns    map[string][]Column
	LastUpdate time.Time
}

// NewSnapshot indexes tables by name and stamps the snapshot time.
func NewSnapshot(tables []Table, at time.Time) *Snapshot {
	s := &Snapshot{
		Tables:     make(map[string]Table, len(tables)),
		Columns:    make(map[string][]Column, len(tables)),
		LastUpdate: at,
	}
	for _, t := range tables {
		s.Tables[t.Name] = t
		s.Columns[t.Name] = t.Columns
	}
	return s
}

// TableNames returns all table names, sorted.
func (s *Snapshot) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ColumnNames returns every column name across all tables, deduplicated and
// sorted.
func (s *Snapshot) ColumnNames() []string {
	seen := make(map[string]struct{})
	for _, cols := range s.Columns {
		for _, c := range cols {
			seen[c.Name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TableColumns returns the columns of one table, or nil if unknown.
func (s *Snapshot) TableColumns(table string) []Column {
	return s.Columns[table]
}
