package sqlcheck

import (
	"regexp"
	"unicode/utf8"
)

// maxLoggedQueryLength caps how much of a query ends up in log output.
const maxLoggedQueryLength = 200

var (
	singleQuotedLiteral = regexp.MustCompile(`'[^']*'`)
	doubleQuotedLiteral = regexp.MustCompile(`"[^"]*"`)
	bareInteger         = regexp.MustCompile(`\b\d+\b`)
)

// SanitizeForLogging masks string literals and bare integers so user data
// never lands in logs, then truncates. The output is for logging only and
// plays no part in validation decisions.
func SanitizeForLogging(query string) string {
	sanitized := singleQuotedLiteral.ReplaceAllString(query, "'***'")
	sanitized = doubleQuotedLiteral.ReplaceAllString(sanitized, `"***"`)
	sanitized = bareInteger.ReplaceAllString(sanitized, "NUM")
	if len(sanitized) > maxLoggedQueryLength {
		// Back up to a rune boundary so the cut never splits a
		// multi-byte character.
		cut := maxLoggedQueryLength
		for cut > 0 && !utf8.RuneStart(sanitized[cut]) {
			cut--
		}
		sanitized = sanitized[:cut]
	}
	return sanitized
}
