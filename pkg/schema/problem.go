package schema

import (
	"regexp"
	"strings"
)

var (
	createTablePattern = regexp.MustCompile(`(?is)CREATE TABLE\s+(?:IF NOT EXISTS\s+)?(\w+)\s*\((.*?)\)\s*;`)
	columnLinePattern  = regexp.MustCompile(`^(\w+)\s+(\w+(?:\s*\(\s*\d+(?:\s*,\s*\d+)?\s*\))?)`)
)

// tableConstraintPrefixes mark body lines that define table-level
// constraints rather than columns.
var tableConstraintPrefixes = []string{
	"PRIMARY KEY",
	"FOREIGN KEY",
	"CONSTRAINT",
	"UNIQUE",
	"CHECK",
}

// ParseProblemSchema extracts tables and columns from a problem's setup
// SQL. Problems carry their own CREATE TABLE statements, so autocomplete
// can work from the statement text without touching the sandbox. The
// parser is intentionally loose: unparseable lines are skipped rather than
// reported.
func ParseProblemSchema(setupSQL string) []Table {
	var tables []Table

	for _, match := range createTablePattern.FindAllStringSubmatch(setupSQL, -1) {
		table := Table{Name: strings.ToLower(match[1])}

		for _, line := range splitColumnDefs(match[2]) {
			line = strings.TrimSpace(line)
			if line == "" || isTableConstraint(line) {
				continue
			}

			colMatch := columnLinePattern.FindStringSubmatch(line)
			if colMatch == nil {
				continue
			}

			upper := strings.ToUpper(line)
			table.Columns = append(table.Columns, Column{
				Name:         strings.ToLower(colMatch[1]),
				Table:        table.Name,
				DataType:     strings.ToLower(colMatch[2]),
				Nullable:     !strings.Contains(upper, "NOT NULL"),
				IsPrimaryKey: strings.Contains(upper, "PRIMARY KEY"),
				IsForeignKey: strings.Contains(upper, "REFERENCES"),
			})
		}

		tables = append(tables, table)
	}

	return tables
}

func isTableConstraint(line string) bool {
	upper := strings.ToUpper(line)
	for _, prefix := range tableConstraintPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}

// splitColumnDefs splits a CREATE TABLE body on top-level commas, keeping
// parenthesized type arguments like NUMERIC(10, 2) intact.
func splitColumnDefs(body string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range body {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, body[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, body[start:])
	return parts
}
