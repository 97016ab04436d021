package sqlcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckLiteralInjection_CleanLiterals(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{
			name:  "plain name literal",
			query: "SELECT * FROM customers WHERE first_name = 'Jane'",
		},
		{
			name:  "numeric-looking literal",
			query: "SELECT * FROM orders WHERE order_ref = '12345'",
		},
		{
			name:  "no literals at all",
			query: "SELECT COUNT(*) FROM orders",
		},
		{
			name:  "empty literal",
			query: "SELECT * FROM customers WHERE notes = ''",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, CheckLiteralInjection(tt.query))
		})
	}
}

func TestCheckLiteralInjection_FlagsPayload(t *testing.T) {
	findings := CheckLiteralInjection("SELECT * FROM customers WHERE name = '1 UNION SELECT password FROM users--'")
	if assert.NotEmpty(t, findings) {
		assert.NotEmpty(t, findings[0].Fingerprint)
	}
}
