package sqlcheck

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeForLogging(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "string literal masked",
			input:    "SELECT * FROM customers WHERE city = 'London'",
			expected: "SELECT * FROM customers WHERE city = '***'",
		},
		{
			name:     "quoted identifier masked",
			input:    `SELECT "first_name" FROM customers`,
			expected: `SELECT "***" FROM customers`,
		},
		{
			name:     "bare integers masked",
			input:    "SELECT * FROM orders WHERE total_amount > 100 AND customer_id = 42",
			expected: "SELECT * FROM orders WHERE total_amount > NUM AND customer_id = NUM",
		},
		{
			name:     "multiple literals",
			input:    "SELECT * FROM t WHERE a = 'x' OR a = 'y'",
			expected: "SELECT * FROM t WHERE a = '***' OR a = '***'",
		},
		{
			name:     "nothing sensitive",
			input:    "SELECT first_name FROM customers",
			expected: "SELECT first_name FROM customers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeForLogging(tt.input))
		})
	}
}

func TestSanitizeForLogging_Truncates(t *testing.T) {
	long := "SELECT " + strings.Repeat("x", 500)
	got := SanitizeForLogging(long)
	assert.Len(t, got, maxLoggedQueryLength)
}

func TestSanitizeForLogging_TruncatesOnRuneBoundary(t *testing.T) {
	// Column identifiers survive masking. The 13-byte prefix leaves the
	// truncation point in the middle of a two-byte rune.
	long := "SELECT césar" + strings.Repeat("é", maxLoggedQueryLength) + " FROM t"
	got := SanitizeForLogging(long)
	assert.True(t, utf8.ValidString(got), "truncated output must stay valid UTF-8")
	assert.LessOrEqual(t, len(got), maxLoggedQueryLength)
}

func TestSanitizeForLogging_MasksEmailLiteral(t *testing.T) {
	got := SanitizeForLogging("SELECT * FROM customers WHERE email = 'jane@example.com'")
	assert.NotContains(t, got, "jane@example.com")
}
