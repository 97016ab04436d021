package sqlcheck

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// LiteralFinding reports a string literal whose contents libinjection
// fingerprinted as a SQL injection payload.
type LiteralFinding struct {
	Literal     string // literal contents, without the surrounding quotes
	Fingerprint string // libinjection fingerprint of the detected pattern
}

// CheckLiteralInjection runs libinjection over the contents of each
// single-quoted string literal in an already-admitted query. The result is
// advisory: the execution path logs findings for monitoring, but the
// admit/deny decision made by ValidateQuery is never revisited.
func CheckLiteralInjection(query string) []LiteralFinding {
	var findings []LiteralFinding
	for _, match := range singleQuotedLiteral.FindAllString(query, -1) {
		literal := match[1 : len(match)-1]
		if literal == "" {
			continue
		}
		if isSQLi, fingerprint := libinjection.IsSQLi(literal); isSQLi {
			findings = append(findings, LiteralFinding{
				Literal:     literal,
				Fingerprint: string(fingerprint),
			})
		}
	}
	return findings
}
