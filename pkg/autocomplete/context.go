// Package autocomplete ranks context-aware completions for a partially
// typed SQL query. Context detection is regex-based, not a parser: nested
// subqueries and CTEs are not understood, which is an accepted limitation
// for interview-length queries.
package autocomplete

import (
	"regexp"
	"strings"
)

// TableRef is a table introduced by a FROM or JOIN clause. Alias equals
// Name when the query does not alias the table.
type TableRef struct {
	Name  string `json:"name"`
	Alias string `json:"alias"`
}

// QueryContext describes the cursor position within a partial query.
type QueryContext struct {
	BeforeCursor string `json:"beforeCursor"`
	AfterCursor  string `json:"afterCursor"`

	// CurrentWord is the identifier fragment being typed. When the
	// cursor follows "alias.", Qualifier holds the alias and CurrentWord
	// the fragment after the dot.
	CurrentWord string `json:"currentWord"`
	Qualifier   string `json:"qualifier,omitempty"`

	IsAfterSelect  bool `json:"isAfterSelect"`
	IsAfterFrom    bool `json:"isAfterFrom"`
	IsAfterWhere   bool `json:"isAfterWhere"`
	IsAfterJoin    bool `json:"isAfterJoin"`
	IsAfterOn      bool `json:"isAfterOn"`
	IsAfterGroupBy bool `json:"isAfterGroupBy"`
	IsAfterOrderBy bool `json:"isAfterOrderBy"`
	IsInSelectList bool `json:"isInSelectList"`

	Tables []TableRef `json:"tables"`
}

var (
	currentWordPattern = regexp.MustCompile(`\w+$`)
	qualifierPattern   = regexp.MustCompile(`([A-Za-z_]\w*)\.(\w*)$`)

	afterSelectPattern  = regexp.MustCompile(`(?i)\bSELECT\s*$`)
	afterFromPattern    = regexp.MustCompile(`(?i)\bFROM\s*$`)
	afterWherePattern   = regexp.MustCompile(`(?i)\bWHERE\s*$`)
	afterJoinPattern    = regexp.MustCompile(`(?i)\b(?:INNER\s+|LEFT\s+|RIGHT\s+|FULL\s+)?JOIN\s*$`)
	afterOnPattern      = regexp.MustCompile(`(?i)\bON\s*$`)
	afterGroupByPattern = regexp.MustCompile(`(?i)\bGROUP\s+BY\s*$`)
	afterOrderByPattern = regexp.MustCompile(`(?i)\bORDER\s+BY\s*$`)

	selectTailPattern = regexp.MustCompile(`(?i)\bSELECT\b.*$`)
	fromKeywordInTail = regexp.MustCompile(`(?i)\bFROM\b`)

	tableRefPattern = regexp.MustCompile(`(?i)\b(?:FROM|JOIN)\s+(\w+)(?:\s+(?:AS\s+)?(\w+))?`)
)

// reservedAliases are words that follow a table name without naming an
// alias.
var reservedAliases = map[string]struct{}{
	"WHERE": {}, "JOIN": {}, "INNER": {}, "LEFT": {}, "RIGHT": {}, "FULL": {},
	"CROSS": {}, "ON": {}, "GROUP": {}, "ORDER": {}, "HAVING": {}, "LIMIT": {},
	"OFFSET": {}, "UNION": {}, "AND": {}, "OR": {}, "SET": {}, "USING": {},
}

// ParseQueryContext examines the query around the cursor. Clause flags
// look only at text before the cursor; table references are taken from the
// whole query so that a FROM clause typed after the cursor still scopes
// column suggestions.
func ParseQueryContext(query string, cursorPosition int) QueryContext {
	if cursorPosition < 0 {
		cursorPosition = 0
	}
	if cursorPosition > len(query) {
		cursorPosition = len(query)
	}

	rawBefore := query[:cursorPosition]

	// Clause flags are evaluated with the partial word stripped, so a
	// half-typed identifier after FROM still counts as a table position.
	word := currentWordPattern.FindString(rawBefore)
	clauseText := strings.TrimSuffix(rawBefore, word)

	ctx := QueryContext{
		BeforeCursor:   strings.TrimSpace(rawBefore),
		AfterCursor:    strings.TrimSpace(query[cursorPosition:]),
		CurrentWord:    word,
		IsAfterSelect:  afterSelectPattern.MatchString(clauseText),
		IsAfterFrom:    afterFromPattern.MatchString(clauseText),
		IsAfterWhere:   afterWherePattern.MatchString(clauseText),
		IsAfterJoin:    afterJoinPattern.MatchString(clauseText),
		IsAfterOn:      afterOnPattern.MatchString(clauseText),
		IsAfterGroupBy: afterGroupByPattern.MatchString(clauseText),
		IsAfterOrderBy: afterOrderByPattern.MatchString(clauseText),
		IsInSelectList: inSelectList(rawBefore),
		Tables:         extractTableRefs(query),
	}

	if m := qualifierPattern.FindStringSubmatch(rawBefore); m != nil {
		ctx.Qualifier = m[1]
		ctx.CurrentWord = m[2]
	}

	return ctx
}

// inSelectList reports whether the cursor sits between SELECT and its FROM.
func inSelectList(before string) bool {
	tail := selectTailPattern.FindString(before)
	if tail == "" {
		return false
	}
	return !fromKeywordInTail.MatchString(tail)
}

func extractTableRefs(query string) []TableRef {
	var refs []TableRef
	for _, m := range tableRefPattern.FindAllStringSubmatch(query, -1) {
		ref := TableRef{Name: m[1], Alias: m[1]}
		if m[2] != "" {
			if _, reserved := reservedAliases[strings.ToUpper(m[2])]; !reserved {
				ref.Alias = m[2]
			}
		}
		refs = append(refs, ref)
	}
	return refs
}
