package sqlcheck

import (
	"fmt"
	"regexp"
	"strings"
)

// dangerousKeywords are statements and constructs that are never allowed in
// practice queries, matched as whole words case-insensitively. A match is an
// immediate critical rejection.
var dangerousKeywords = []string{
	"DROP", "DELETE", "UPDATE", "INSERT", "CREATE", "ALTER", "TRUNCATE",
	"EXEC", "EXECUTE", "DECLARE", "CURSOR", "PROCEDURE", "FUNCTION",
	"TRIGGER", "VIEW", "INDEX", "SCHEMA", "DATABASE", "GRANT", "REVOKE",
	"COMMIT", "ROLLBACK", "SAVEPOINT", "LOCK", "UNLOCK",
}

var dangerousKeywordPatterns = compileKeywordPatterns(dangerousKeywords)

func compileKeywordPatterns(keywords []string) map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(keywords))
	for _, kw := range keywords {
		patterns[kw] = regexp.MustCompile(`(?i)\b` + kw + `\b`)
	}
	return patterns
}

// suspiciousPattern flags query text that looks like an injection attempt.
// Matches do not short-circuit validation; each one appends a violation and
// elevates the risk level to at least high.
type suspiciousPattern struct {
	re   *regexp.Regexp
	desc string
}

var suspiciousPatterns = []suspiciousPattern{
	{regexp.MustCompile(`(?i);\s*(DROP|DELETE|UPDATE|INSERT|CREATE|ALTER)`), "stacked statement"},
	{regexp.MustCompile(`(?i)UNION\s+SELECT`), "union-based injection"},
	{regexp.MustCompile(`(?i)'\s*OR\s+'[^']*'\s*=\s*'`), "tautology injection"},
	{regexp.MustCompile(`--[^\r\n]*`), "line comment"},
	{regexp.MustCompile(`/\*[\s\S]*?\*/`), "block comment"},
	{regexp.MustCompile(`0x[0-9A-Fa-f]+`), "hexadecimal literal"},
	{regexp.MustCompile(`(?i)WAITFOR\s+DELAY`), "time-delay attack"},
	{regexp.MustCompile(`(?i)BENCHMARK\s*\(`), "benchmark attack"},
	{regexp.MustCompile(`(?i)SLEEP\s*\(`), "sleep attack"},
	{regexp.MustCompile(`(?i)pg_sleep\s*\(`), "pg_sleep attack"},
	{regexp.MustCompile(`(?i)information_schema`), "system catalog probe"},
	{regexp.MustCompile(`(?i)sys\.`), "system table access"},
	{regexp.MustCompile(`(?i)master\.`), "system database access"},
	{regexp.MustCompile(`(?i)msdb\.`), "system database access"},
	{regexp.MustCompile(`(?i)tempdb\.`), "system database access"},
}

// allowedPrefixes are the only statement kinds practice queries may start
// with. The prefix check is case-insensitive on the trimmed query.
var allowedPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^SELECT\s+`),
	regexp.MustCompile(`(?i)^WITH\s+`),
	regexp.MustCompile(`(?i)^EXPLAIN\s+`),
	regexp.MustCompile(`(?i)^DESCRIBE\s+`),
	regexp.MustCompile(`(?i)^SHOW\s+`),
}

// findDangerousKeyword returns the first denylisted keyword found in the
// query as a whole word, or "" when none match. Scan order follows the
// keyword list so rejections are deterministic.
func findDangerousKeyword(query string) string {
	for _, kw := range dangerousKeywords {
		if dangerousKeywordPatterns[kw].MatchString(query) {
			return kw
		}
	}
	return ""
}

// findSuspiciousPatterns returns a violation message per matching pattern.
func findSuspiciousPatterns(query string) []string {
	var found []string
	for _, p := range suspiciousPatterns {
		if p.re.MatchString(query) {
			found = append(found, fmt.Sprintf("Suspicious pattern detected: %s", p.desc))
		}
	}
	return found
}

// hasAllowedPrefix reports whether the query starts with one of the
// permitted statement keywords.
func hasAllowedPrefix(query string) bool {
	trimmed := strings.TrimSpace(query)
	for _, prefix := range allowedPrefixes {
		if prefix.MatchString(trimmed) {
			return true
		}
	}
	return false
}
