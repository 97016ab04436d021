// Package analysis turns raw sandbox error strings into structured,
// actionable diagnostics. Everything here is advisory: analysis must never
// fail, so an unrecognized error degrades to a passthrough of the original
// message rather than an error return.
package analysis

import (
	"fmt"
	"strings"
)

// ErrorType classifies a failed execution against known error signatures.
type ErrorType string

const (
	ErrorTypeTableNotFound    ErrorType = "table_not_found"
	ErrorTypeColumnNotFound   ErrorType = "column_not_found"
	ErrorTypeSyntax           ErrorType = "syntax_error"
	ErrorTypeGroupBy          ErrorType = "group_by_error"
	ErrorTypeNestedAggregate  ErrorType = "nested_aggregate"
	ErrorTypeDivisionByZero   ErrorType = "division_by_zero"
	ErrorTypeBooleanOperator  ErrorType = "boolean_operator_error"
	ErrorTypeInvalidInteger   ErrorType = "invalid_integer"
	ErrorTypePermissionDenied ErrorType = "permission_denied"
	ErrorTypeFunctionNotFound ErrorType = "function_not_found"
	ErrorTypeUnknown          ErrorType = "unknown"
)

// SchemaContext carries the names the sandbox currently knows about, used
// for "did you mean" suggestions. Either list may be nil.
type SchemaContext struct {
	AvailableTables  []string
	AvailableColumns []string
}

// PerformanceHint flags a query-text anti-pattern independent of the error.
type PerformanceHint struct {
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// QuickFix pairs a description with a mechanically corrected query.
type QuickFix struct {
	Description    string `json:"description"`
	CorrectedQuery string `json:"correctedQuery"`
}

// DocLink points at reference documentation for the diagnosed error type.
type DocLink struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Analysis is the full diagnostic for one failed execution.
type Analysis struct {
	OriginalError    string            `json:"originalError"`
	ErrorType        ErrorType         `json:"errorType"`
	Severity         string            `json:"severity"`
	EnhancedMessage  string            `json:"enhancedMessage"`
	Suggestions      []string          `json:"suggestions"`
	Examples         []string          `json:"examples"`
	PerformanceHints []PerformanceHint `json:"performanceHints"`
	RelatedDocs      []DocLink         `json:"relatedDocs"`
	QuickFixes       []QuickFix        `json:"quickFixes"`
}

// Analyzer matches error messages against an ordered signature list and
// enriches the result with schema-aware suggestions. It is stateless and
// safe for concurrent use.
type Analyzer struct {
	signatures []signature
}

// NewAnalyzer builds an analyzer with the standard signature set.
func NewAnalyzer() *Analyzer {
	return &Analyzer{signatures: errorSignatures}
}

// AnalyzeError classifies errorMessage. The first matching signature wins;
// query-text anti-pattern hints and documentation links are added
// regardless of which signature matched. ctx may be nil.
func (a *Analyzer) AnalyzeError(errorMessage, query string, ctx *SchemaContext) Analysis {
	analysis := Analysis{
		OriginalError:   errorMessage,
		ErrorType:       ErrorTypeUnknown,
		Severity:        "error",
		EnhancedMessage: errorMessage,
	}

	for _, sig := range a.signatures {
		match := sig.pattern.FindStringSubmatch(errorMessage)
		if match == nil {
			continue
		}

		analysis.ErrorType = sig.errType
		analysis.Severity = sig.severity
		analysis.EnhancedMessage = sig.message(match)

		if sig.suggestion != nil {
			if s := sig.suggestion(match, ctx); s != "" {
				analysis.Suggestions = append(analysis.Suggestions, s)
			}
		}
		if sig.example != nil {
			if e := sig.example(match); e != "" {
				analysis.Examples = append(analysis.Examples, e)
			}
		}
		break
	}

	a.addQueryMistakes(query, &analysis)
	a.addPerformanceHints(query, &analysis)
	a.addContextualSuggestions(&analysis, ctx)
	a.addDocumentationLink(&analysis)

	return analysis
}

// LearningSuggestions returns study topics keyed by the diagnosed error
// type, falling back to generic fundamentals.
func LearningSuggestions(errType ErrorType) []string {
	if topics, ok := learningPaths[errType]; ok {
		return topics
	}
	return []string{
		"Review SQL fundamentals",
		"Practice with similar query patterns",
		"Check documentation for proper syntax",
	}
}

func (a *Analyzer) addQueryMistakes(query string, analysis *Analysis) {
	if query == "" {
		return
	}
	for _, mistake := range commonMistakes {
		match := mistake.pattern.FindStringSubmatch(query)
		if match == nil {
			continue
		}
		analysis.Suggestions = append(analysis.Suggestions, mistake.suggestion)
		if mistake.correction != nil {
			analysis.QuickFixes = append(analysis.QuickFixes, QuickFix{
				Description:    mistake.suggestion,
				CorrectedQuery: mistake.correction(match),
			})
		}
	}
}

func (a *Analyzer) addPerformanceHints(query string, analysis *Analysis) {
	if query == "" {
		return
	}
	for _, hint := range performanceHints {
		if hint.pattern.MatchString(query) {
			analysis.PerformanceHints = append(analysis.PerformanceHints, PerformanceHint{
				Message:    hint.message,
				Suggestion: hint.suggestion,
			})
		}
	}
}

func (a *Analyzer) addContextualSuggestions(analysis *Analysis, ctx *SchemaContext) {
	if ctx == nil {
		return
	}
	if analysis.ErrorType == ErrorTypeTableNotFound && len(ctx.AvailableTables) > 0 {
		analysis.Suggestions = append(analysis.Suggestions,
			fmt.Sprintf("Available tables: %s", strings.Join(ctx.AvailableTables, ", ")))
	}
	if analysis.ErrorType == ErrorTypeColumnNotFound && len(ctx.AvailableColumns) > 0 {
		analysis.Suggestions = append(analysis.Suggestions,
			fmt.Sprintf("Available columns: %s", strings.Join(ctx.AvailableColumns, ", ")))
	}
}

func (a *Analyzer) addDocumentationLink(analysis *Analysis) {
	url, ok := docLinks[analysis.ErrorType]
	if !ok {
		return
	}
	analysis.RelatedDocs = append(analysis.RelatedDocs, DocLink{
		Title:       "PostgreSQL Documentation",
		URL:         url,
		Description: fmt.Sprintf("Learn more about %s", strings.ReplaceAll(string(analysis.ErrorType), "_", " ")),
	})
}

var docLinks = map[ErrorType]string{
	ErrorTypeSyntax:           "https://www.postgresql.org/docs/current/sql-syntax.html",
	ErrorTypeGroupBy:          "https://www.postgresql.org/docs/current/tutorial-agg.html",
	ErrorTypeFunctionNotFound: "https://www.postgresql.org/docs/current/functions.html",
	ErrorTypeTableNotFound:    "https://www.postgresql.org/docs/current/ddl-basics.html",
}

var learningPaths = map[ErrorType][]string{
	ErrorTypeTableNotFound: {
		"Learn about database schemas and table structures",
		"Practice writing basic SELECT statements",
		"Understand how to list available tables",
	},
	ErrorTypeColumnNotFound: {
		"Learn about table columns and data types",
		"Practice describing table structures",
		"Understand column naming conventions",
	},
	ErrorTypeSyntax: {
		"Review basic SQL syntax rules",
		"Practice with simple queries first",
		"Learn about SQL statement structure",
	},
	ErrorTypeGroupBy: {
		"Learn about aggregate functions",
		"Understand GROUP BY clause usage",
		"Practice with COUNT, SUM, AVG functions",
	},
}
