// Package sqlcheck decides whether untrusted practice SQL may be forwarded
// to the shared sandbox database. It is deliberately heuristic: keyword and
// pattern denylisting plus character-level structural checks, not a parser.
package sqlcheck

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RiskLevel classifies how dangerous a submitted query appears.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// MaxQueryLength is the pre-trim ceiling on query size.
const MaxQueryLength = 10000

// minQueryLength applies to the trimmed query.
const minQueryLength = 3

// ValidationResult is the admit/deny decision for one query. Violations are
// ordered by the check that produced them; a query is valid only when no
// check recorded a violation.
type ValidationResult struct {
	IsValid        bool      `json:"isValid"`
	RiskLevel      RiskLevel `json:"riskLevel"`
	Violations     []string  `json:"violations"`
	SanitizedQuery string    `json:"sanitizedQuery"`
}

// Validator orchestrates the pattern library, structural checks, and the
// rate limiter. It holds no per-query state and is safe for concurrent use.
type Validator struct {
	structure QueryStructureAnalyzer
	limiter   *RateLimiter
	maxLength int
}

// Option adjusts validator construction.
type Option func(*Validator)

// WithMaxLength overrides the pre-trim ceiling on query size. Values of
// zero or less keep the default.
func WithMaxLength(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.maxLength = n
		}
	}
}

// NewValidator builds a validator with the default heuristic structure
// analyzer. limiter may be nil, in which case rate limiting is skipped even
// when a client key is supplied.
func NewValidator(limiter *RateLimiter, opts ...Option) *Validator {
	v := &Validator{
		structure: NewStructureAnalyzer(),
		limiter:   limiter,
		maxLength: MaxQueryLength,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NewValidatorWithDefaults builds a validator with its own rate limiter at
// the default window and quota.
func NewValidatorWithDefaults() *Validator {
	return NewValidator(NewRateLimiter(DefaultRateLimitWindow, DefaultRateLimitMax))
}

// ValidateQuery runs the check sequence against query. clientKey identifies
// the caller for rate limiting; pass "" to skip the rate check entirely.
//
// Check ordering is part of the contract. Hard failures short-circuit, so a
// query rejected by an early check never reaches the rate limiter and never
// consumes a rate-limit slot. Suspicious-pattern matches accumulate without
// short-circuiting but elevate risk.
func (v *Validator) ValidateQuery(query string, clientKey string) ValidationResult {
	result := ValidationResult{
		RiskLevel:      RiskLow,
		SanitizedQuery: strings.TrimSpace(query),
	}

	trimmed := strings.TrimSpace(query)

	if query == "" {
		result.Violations = append(result.Violations, "Invalid query format")
		result.RiskLevel = RiskHigh
		return result
	}

	if len(trimmed) < minQueryLength {
		result.Violations = append(result.Violations, "Query too short")
		result.RiskLevel = RiskMedium
		return result
	}

	if len(query) > v.maxLength {
		result.Violations = append(result.Violations,
			fmt.Sprintf("Query too long (max %s characters)", groupThousands(v.maxLength)))
		result.RiskLevel = RiskHigh
		return result
	}

	// Denylisted keywords take priority over everything below; the first
	// match is an immediate critical rejection.
	if kw := findDangerousKeyword(trimmed); kw != "" {
		result.Violations = append(result.Violations, fmt.Sprintf("Dangerous keyword detected: %s", kw))
		result.RiskLevel = RiskCritical
		return result
	}

	// Suspicious patterns accumulate; risk rises to at least high.
	if suspicious := findSuspiciousPatterns(query); len(suspicious) > 0 {
		result.Violations = append(result.Violations, suspicious...)
		result.RiskLevel = elevate(result.RiskLevel, RiskHigh)
	}

	if !hasAllowedPrefix(trimmed) {
		result.Violations = append(result.Violations, "Query must start with SELECT, WITH, EXPLAIN, DESCRIBE, or SHOW")
		result.RiskLevel = RiskHigh
		return result
	}

	if len(v.structure.SplitStatements(query)) > 1 {
		result.Violations = append(result.Violations, "Multiple statements not allowed")
		result.RiskLevel = RiskHigh
		return result
	}

	if !v.structure.ParenthesesBalanced(query) {
		result.Violations = append(result.Violations, "Unbalanced parentheses detected")
		result.RiskLevel = RiskMedium
		return result
	}

	if !v.structure.QuotesBalanced(query) {
		result.Violations = append(result.Violations, "Unbalanced quotes detected")
		result.RiskLevel = RiskMedium
		return result
	}

	if clientKey != "" && v.limiter != nil && !v.limiter.Allow(clientKey) {
		result.Violations = append(result.Violations, "Rate limit exceeded")
		result.RiskLevel = RiskHigh
		return result
	}

	if len(result.Violations) == 0 {
		result.IsValid = true
		result.RiskLevel = RiskLow
	}

	return result
}

// elevate raises current to at least floor, never lowering it. Critical is
// sticky.
func elevate(current, floor RiskLevel) RiskLevel {
	if rank(floor) > rank(current) {
		return floor
	}
	return current
}

// groupThousands renders n with comma separators for violation messages.
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

func rank(r RiskLevel) int {
	switch r {
	case RiskCritical:
		return 3
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

// RateLimitWindow exposes the limiter window for callers that surface
// retry-after semantics. Returns zero when no limiter is configured.
func (v *Validator) RateLimitWindow() time.Duration {
	if v.limiter == nil {
		return 0
	}
	return v.limiter.window
}
