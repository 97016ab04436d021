package sqlcheck

import "strings"

// QueryStructureAnalyzer answers best-effort structural questions about raw
// SQL text. The default implementation is heuristic (character scanning, not
// a parser); the interface exists so a real parser can be substituted
// without touching the validator.
type QueryStructureAnalyzer interface {
	ParenthesesBalanced(query string) bool
	QuotesBalanced(query string) bool
	SplitStatements(query string) []string
}

type heuristicAnalyzer struct{}

// NewStructureAnalyzer returns the heuristic scanner used in production.
func NewStructureAnalyzer() QueryStructureAnalyzer {
	return heuristicAnalyzer{}
}

func (heuristicAnalyzer) ParenthesesBalanced(query string) bool {
	return IsParenthesesBalanced(query)
}

func (heuristicAnalyzer) QuotesBalanced(query string) bool {
	return IsQuotesBalanced(query)
}

func (heuristicAnalyzer) SplitStatements(query string) []string {
	return SplitStatements(query)
}

// isEscaped reports whether the byte at index i is preceded by an odd run
// of backslashes.
func isEscaped(s string, i int) bool {
	backslashes := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		backslashes++
	}
	return backslashes%2 == 1
}

// IsParenthesesBalanced checks parenthesis nesting, ignoring parens that
// appear inside single- or double-quoted string literals. Backslash-escaped
// quote characters do not terminate a literal.
func IsParenthesesBalanced(query string) bool {
	depth := 0
	inString := false
	var stringChar byte

	for i := 0; i < len(query); i++ {
		ch := query[i]

		if (ch == '\'' || ch == '"') && !inString {
			inString = true
			stringChar = ch
			continue
		}

		if inString && ch == stringChar {
			if !isEscaped(query, i) {
				inString = false
				stringChar = 0
			}
			continue
		}

		if !inString {
			switch ch {
			case '(':
				depth++
			case ')':
				depth--
				if depth < 0 {
					return false
				}
			}
		}
	}

	return depth == 0
}

// IsQuotesBalanced counts unescaped single and double quotes independently;
// both counts must be even. The SQL-standard doubled quote ('') contributes
// two to the count and so stays balanced.
func IsQuotesBalanced(query string) bool {
	singleQuotes := 0
	doubleQuotes := 0

	for i := 0; i < len(query); i++ {
		switch query[i] {
		case '\'':
			if !isEscaped(query, i) {
				singleQuotes++
			}
		case '"':
			if !isEscaped(query, i) {
				doubleQuotes++
			}
		}
	}

	return singleQuotes%2 == 0 && doubleQuotes%2 == 0
}

// SplitStatements splits on semicolons and drops empty fragments. A result
// longer than one means the input tried to stack statements.
func SplitStatements(query string) []string {
	parts := strings.Split(query, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			statements = append(statements, trimmed)
		}
	}
	return statements
}
