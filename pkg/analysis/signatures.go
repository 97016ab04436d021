package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

// signature is one known error shape. Signatures are matched in order and
// the first match wins, so more specific patterns come first.
type signature struct {
	pattern    *regexp.Regexp
	errType    ErrorType
	severity   string
	message    func(match []string) string
	suggestion func(match []string, ctx *SchemaContext) string
	example    func(match []string) string
}

var errorSignatures = []signature{
	{
		pattern:  regexp.MustCompile(`(?i)relation "(\w+)" does not exist`),
		errType:  ErrorTypeTableNotFound,
		severity: "error",
		message: func(m []string) string {
			return fmt.Sprintf("Table %q doesn't exist", m[1])
		},
		suggestion: tableSuggestion,
		example: func(m []string) string {
			return "Try: SELECT * FROM existing_table_name;"
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)column "(\w+)" does not exist`),
		errType:  ErrorTypeColumnNotFound,
		severity: "error",
		message: func(m []string) string {
			return fmt.Sprintf("Column %q doesn't exist", m[1])
		},
		suggestion: columnSuggestion,
		example: func(m []string) string {
			return "Check column names with: DESCRIBE table_name;"
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)syntax error at or near "([^"]+)"`),
		errType:  ErrorTypeSyntax,
		severity: "error",
		message: func(m []string) string {
			return fmt.Sprintf("Syntax error near %q", m[1])
		},
		suggestion: syntaxSuggestion,
		example: func(m []string) string {
			return fmt.Sprintf("Check SQL syntax around %q", m[1])
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)column ".*" must appear in the GROUP BY clause`),
		errType:  ErrorTypeGroupBy,
		severity: "error",
		message: func(m []string) string {
			return "Column must be in GROUP BY clause"
		},
		suggestion: func(m []string, ctx *SchemaContext) string {
			return "When using aggregate functions (COUNT, SUM, etc.), all non-aggregated columns in SELECT must be in GROUP BY."
		},
		example: func(m []string) string {
			return "SELECT column1, COUNT(*) FROM table GROUP BY column1;"
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)aggregate function calls cannot be nested`),
		errType:  ErrorTypeNestedAggregate,
		severity: "error",
		message: func(m []string) string {
			return "Cannot nest aggregate functions"
		},
		suggestion: func(m []string, ctx *SchemaContext) string {
			return "Use subqueries or window functions instead of nesting aggregates like COUNT(SUM(...))"
		},
		example: func(m []string) string {
			return "SELECT COUNT(*) FROM (SELECT SUM(amount) FROM sales GROUP BY customer_id) subquery;"
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)division by zero`),
		errType:  ErrorTypeDivisionByZero,
		severity: "error",
		message: func(m []string) string {
			return "Division by zero error"
		},
		suggestion: func(m []string, ctx *SchemaContext) string {
			return "Add a CASE statement to handle zero divisors"
		},
		example: func(m []string) string {
			return "SELECT CASE WHEN denominator = 0 THEN 0 ELSE numerator/denominator END;"
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)operator does not exist.*boolean`),
		errType:  ErrorTypeBooleanOperator,
		severity: "error",
		message: func(m []string) string {
			return "Invalid boolean operation"
		},
		suggestion: func(m []string, ctx *SchemaContext) string {
			return "Use proper boolean operators: AND, OR, NOT instead of &, |, !"
		},
		example: func(m []string) string {
			return "WHERE condition1 = true AND condition2 = false"
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)invalid input syntax for.*integer`),
		errType:  ErrorTypeInvalidInteger,
		severity: "error",
		message: func(m []string) string {
			return "Invalid integer format"
		},
		suggestion: func(m []string, ctx *SchemaContext) string {
			return "Ensure numeric values are properly formatted without quotes"
		},
		example: func(m []string) string {
			return "WHERE age > 25 (not WHERE age > '25')"
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)permission denied`),
		errType:  ErrorTypePermissionDenied,
		severity: "error",
		message: func(m []string) string {
			return "Permission denied"
		},
		suggestion: func(m []string, ctx *SchemaContext) string {
			return "You may not have permission to access this table or perform this operation"
		},
		example: func(m []string) string {
			return "Contact your database administrator for proper permissions"
		},
	},
	{
		pattern:  regexp.MustCompile(`(?i)function.*does not exist`),
		errType:  ErrorTypeFunctionNotFound,
		severity: "error",
		message: func(m []string) string {
			return "Function doesn't exist or wrong parameters"
		},
		suggestion: functionSuggestion,
		example: func(m []string) string {
			return "Check function name spelling and parameter types"
		},
	},
}

func tableSuggestion(match []string, ctx *SchemaContext) string {
	invalid := match[1]
	if ctx == nil || len(ctx.AvailableTables) == 0 {
		return "Check that the table name is spelled correctly and exists in the database."
	}

	all := strings.Join(ctx.AvailableTables, ", ")
	if similar := FindSimilar(invalid, ctx.AvailableTables); len(similar) > 0 {
		return fmt.Sprintf("Did you mean: %s? Available tables: %s", strings.Join(similar, ", "), all)
	}
	return fmt.Sprintf("Table %q not found. Available tables: %s", invalid, all)
}

func columnSuggestion(match []string, ctx *SchemaContext) string {
	invalid := match[1]
	if ctx == nil || len(ctx.AvailableColumns) == 0 {
		return "Check that the column name is spelled correctly and exists in the selected tables."
	}

	if similar := FindSimilar(invalid, ctx.AvailableColumns); len(similar) > 0 {
		return fmt.Sprintf("Did you mean: %s?", strings.Join(similar, ", "))
	}
	return fmt.Sprintf("Column %q not found. Available columns: %s", invalid, strings.Join(ctx.AvailableColumns, ", "))
}

var syntaxFixes = map[string]string{
	"FROM":  "Check if you're missing a comma in the SELECT clause",
	"WHERE": "Ensure proper JOIN syntax before WHERE clause",
	"GROUP": `Did you mean "GROUP BY"?`,
	"ORDER": `Did you mean "ORDER BY"?`,
	")":     "Check for matching opening parenthesis",
	"(":     "Check for matching closing parenthesis",
	",":     "Check for proper comma placement in lists",
	";":     "Semicolon should only appear at the end of the statement",
}

func syntaxSuggestion(match []string, ctx *SchemaContext) string {
	if fix, ok := syntaxFixes[strings.ToUpper(match[1])]; ok {
		return fix
	}
	return "Check SQL syntax and keyword spelling."
}

var commonFunctionUsage = map[string]string{
	"count":     "COUNT(*) or COUNT(column_name)",
	"sum":       "SUM(numeric_column)",
	"avg":       "AVG(numeric_column)",
	"max":       "MAX(column_name)",
	"min":       "MIN(column_name)",
	"upper":     "UPPER(text_column)",
	"lower":     "LOWER(text_column)",
	"length":    "LENGTH(text_column)",
	"substring": "SUBSTRING(text_column, start, length)",
	"now":       "NOW() or CURRENT_TIMESTAMP",
	"date":      "DATE(timestamp_column)",
}

var functionNamePattern = regexp.MustCompile(`(?i)function (\w+)`)

func functionSuggestion(match []string, ctx *SchemaContext) string {
	if m := functionNamePattern.FindStringSubmatch(match[0]); m != nil {
		if usage, ok := commonFunctionUsage[strings.ToLower(m[1])]; ok {
			return fmt.Sprintf("Try: %s", usage)
		}
	}
	return "Check function name spelling and parameter types. Common functions: COUNT, SUM, AVG, MAX, MIN."
}

// queryMistake flags a likely authoring mistake in the query text itself,
// optionally with a mechanical correction.
type queryMistake struct {
	pattern    *regexp.Regexp
	suggestion string
	correction func(match []string) string
}

var commonMistakes = []queryMistake{
	{
		pattern:    regexp.MustCompile(`(?i)SELECT \* FROM (\w+) WHERE (\w+) = ([A-Za-z]\w*)`),
		suggestion: "String values should be enclosed in single quotes",
		correction: func(m []string) string {
			return fmt.Sprintf("SELECT * FROM %s WHERE %s = '%s'", m[1], m[2], m[3])
		},
	},
	{
		pattern:    regexp.MustCompile(`(?i)SELECT.*COUNT\(\*\).*FROM.*WHERE`),
		suggestion: "Consider using aggregate functions with GROUP BY for better analysis",
		correction: func(m []string) string {
			return "Add GROUP BY clause after WHERE conditions"
		},
	},
}

// antiPattern is a query shape that executes but tends to perform badly.
type antiPattern struct {
	pattern    *regexp.Regexp
	message    string
	suggestion string
}

var performanceHints = []antiPattern{
	{
		pattern:    regexp.MustCompile(`(?i)SELECT \* FROM \w+ WHERE \w+ LIKE '%.*%'`),
		message:    "Using LIKE with leading wildcard (%) can be slow on large tables",
		suggestion: "Consider full-text search or restructure your query if possible",
	},
	{
		pattern:    regexp.MustCompile(`(?i)SELECT.*FROM.*WHERE.*OR.*OR`),
		message:    "Multiple OR conditions might benefit from index optimization",
		suggestion: "Consider using IN clause: WHERE column IN (value1, value2, ...)",
	},
	{
		pattern:    regexp.MustCompile(`(?i)SELECT \* FROM`),
		message:    "Selecting all columns (*) can impact performance",
		suggestion: "Select only the columns you need: SELECT col1, col2 FROM ...",
	},
}
