package sqlcheck

import "testing"

func TestIsParenthesesBalanced(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "nested balanced",
			input:    "(a(b)c)",
			expected: true,
		},
		{
			name:     "missing closing paren",
			input:    "(a(b)c",
			expected: false,
		},
		{
			name:     "closing before opening",
			input:    ")(",
			expected: false,
		},
		{
			name:     "paren inside string literal ignored",
			input:    "SELECT '(' FROM t",
			expected: true,
		},
		{
			name:     "paren inside double-quoted identifier ignored",
			input:    `SELECT ")" FROM t`,
			expected: true,
		},
		{
			name:     "function call",
			input:    "SELECT COUNT(*) FROM orders WHERE id IN (1, 2, 3)",
			expected: true,
		},
		{
			name:     "escaped quote does not end literal",
			input:    `SELECT 'it\'s (' FROM t`,
			expected: true,
		},
		{
			name:     "no parens at all",
			input:    "SELECT 1",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsParenthesesBalanced(tt.input); got != tt.expected {
				t.Errorf("IsParenthesesBalanced(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsQuotesBalanced(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "sql standard doubled quote",
			input:    "SELECT 'O''Reilly'",
			expected: true,
		},
		{
			name:     "dangling single quote",
			input:    "SELECT 'unterminated",
			expected: false,
		},
		{
			name:     "backslash escaped quote inside literal",
			input:    `SELECT 'it\'s fine'`,
			expected: true,
		},
		{
			name:     "balanced double quotes",
			input:    `SELECT "first_name" FROM customers`,
			expected: true,
		},
		{
			name:     "dangling double quote",
			input:    `SELECT "first_name FROM customers`,
			expected: false,
		},
		{
			name:     "single and double tracked independently",
			input:    `SELECT "name", 'London' FROM customers`,
			expected: true,
		},
		{
			name:     "no quotes",
			input:    "SELECT 1",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsQuotesBalanced(tt.input); got != tt.expected {
				t.Errorf("IsQuotesBalanced(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		count int
	}{
		{
			name:  "single statement",
			input: "SELECT 1",
			count: 1,
		},
		{
			name:  "trailing semicolon is not a second statement",
			input: "SELECT 1;",
			count: 1,
		},
		{
			name:  "two statements",
			input: "SELECT 1; SELECT 2",
			count: 2,
		},
		{
			name:  "empty fragments dropped",
			input: ";;  ; SELECT 1 ;;",
			count: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitStatements(tt.input); len(got) != tt.count {
				t.Errorf("SplitStatements(%q) = %v (%d statements), want %d", tt.input, got, len(got), tt.count)
			}
		})
	}
}
