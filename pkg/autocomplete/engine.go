package autocomplete

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/querygym/querygym-engine/pkg/schema"
)

// maxCompletions caps the returned suggestion list.
const maxCompletions = 20

// Base priorities per candidate source. Contextual bonus entries slot in
// between.
const (
	priorityTable           = 100
	priorityColumn          = 90
	priorityQualifiedColumn = 85
	priorityColumnFallback  = 70
	priorityFunction        = 60
	priorityKeyword         = 50
)

// SnapshotProvider supplies the schema view completions are built from.
type SnapshotProvider interface {
	Snapshot() *schema.Snapshot
}

// Completion is one ranked suggestion.
type Completion struct {
	Text        string `json:"text"`
	Type        string `json:"type"`
	Description string `json:"description"`
	InsertText  string `json:"insertText"`
	Priority    int    `json:"priority"`
	Table       string `json:"table,omitempty"`
	Alias       string `json:"alias,omitempty"`
	Usage       string `json:"usage,omitempty"`
}

// Meta reports sizing and cache freshness alongside the completions.
type Meta struct {
	TotalSuggestions int       `json:"totalSuggestions"`
	SchemaLastUpdate time.Time `json:"schemaLastUpdate"`
}

// Result is the full autocomplete response payload.
type Result struct {
	Success     bool         `json:"success"`
	Completions []Completion `json:"completions"`
	Context     QueryContext `json:"context"`
	Meta        Meta         `json:"meta"`
}

// Engine generates completions from a schema snapshot provider. It is
// stateless and safe for concurrent use.
type Engine struct {
	schema SnapshotProvider
}

// NewEngine builds an engine over the given provider.
func NewEngine(provider SnapshotProvider) *Engine {
	return &Engine{schema: provider}
}

// Complete parses the cursor context and returns ranked completions,
// capped to the top entries.
func (e *Engine) Complete(query string, cursorPosition int) Result {
	ctx := ParseQueryContext(query, cursorPosition)
	snap := e.schema.Snapshot()

	completions := e.generate(ctx, snap)
	total := len(completions)
	if total > maxCompletions {
		completions = completions[:maxCompletions]
	}

	return Result{
		Success:     true,
		Completions: completions,
		Context:     ctx,
		Meta: Meta{
			TotalSuggestions: total,
			SchemaLastUpdate: snap.LastUpdate,
		},
	}
}

func (e *Engine) generate(ctx QueryContext, snap *schema.Snapshot) []Completion {
	word := strings.ToLower(ctx.CurrentWord)
	var completions []Completion

	if ctx.Qualifier != "" {
		completions = append(completions, qualifiedColumns(ctx, snap, word)...)
	} else {
		if ctx.IsAfterFrom || ctx.IsAfterJoin {
			for _, name := range snap.TableNames() {
				if !strings.Contains(strings.ToLower(name), word) {
					continue
				}
				completions = append(completions, Completion{
					Text:        name,
					Type:        "table",
					Description: fmt.Sprintf("Table with %d columns", len(snap.TableColumns(name))),
					InsertText:  name,
					Priority:    priorityTable,
				})
			}
		}

		if ctx.IsInSelectList || ctx.IsAfterWhere || ctx.IsAfterOn ||
			ctx.IsAfterGroupBy || ctx.IsAfterOrderBy || ctx.CurrentWord != "" {
			completions = append(completions, referencedColumns(ctx, snap, word)...)
		}
	}

	for _, name := range sqlFunctions {
		if strings.Contains(strings.ToLower(name), word) {
			completions = append(completions, Completion{
				Text:        name,
				Type:        "function",
				Description: functionDescription(name),
				InsertText:  functionUsage(name),
				Priority:    priorityFunction,
				Usage:       functionUsage(name),
			})
		}
	}

	for _, keyword := range sqlKeywords {
		if strings.Contains(strings.ToLower(keyword), word) {
			completions = append(completions, Completion{
				Text:        keyword,
				Type:        "keyword",
				Description: "SQL keyword",
				InsertText:  keyword,
				Priority:    priorityKeyword,
			})
		}
	}

	completions = append(completions, contextualSuggestions(ctx, snap)...)

	rank(completions, word)
	return completions
}

// qualifiedColumns suggests columns of the one table the typed alias
// refers to, in alias.column form.
func qualifiedColumns(ctx QueryContext, snap *schema.Snapshot, word string) []Completion {
	var completions []Completion
	for _, ref := range ctx.Tables {
		if !strings.EqualFold(ref.Alias, ctx.Qualifier) {
			continue
		}
		for _, col := range snap.TableColumns(ref.Name) {
			if !strings.Contains(strings.ToLower(col.Name), word) {
				continue
			}
			completions = append(completions, Completion{
				Text:        fmt.Sprintf("%s.%s", ref.Alias, col.Name),
				Type:        "column",
				Description: fmt.Sprintf("%s.%s (%s)", ref.Name, col.Name, col.DataType),
				InsertText:  fmt.Sprintf("%s.%s", ref.Alias, col.Name),
				Priority:    priorityColumn,
				Table:       ref.Name,
				Alias:       ref.Alias,
			})
		}
	}
	return completions
}

// referencedColumns suggests columns from tables the query already names,
// both bare and alias-qualified, falling back to every known column when
// no table is in scope.
func referencedColumns(ctx QueryContext, snap *schema.Snapshot, word string) []Completion {
	var completions []Completion

	for _, ref := range ctx.Tables {
		for _, col := range snap.TableColumns(ref.Name) {
			if !strings.Contains(strings.ToLower(col.Name), word) {
				continue
			}
			desc := col.DataType
			if col.Nullable {
				desc += " (nullable)"
			}
			completions = append(completions, Completion{
				Text:        col.Name,
				Type:        "column",
				Description: desc,
				InsertText:  col.Name,
				Priority:    priorityColumn,
				Table:       ref.Name,
				Alias:       ref.Alias,
			})
			completions = append(completions, Completion{
				Text:        fmt.Sprintf("%s.%s", ref.Alias, col.Name),
				Type:        "column",
				Description: fmt.Sprintf("%s.%s (%s)", ref.Name, col.Name, col.DataType),
				InsertText:  fmt.Sprintf("%s.%s", ref.Alias, col.Name),
				Priority:    priorityQualifiedColumn,
				Table:       ref.Name,
				Alias:       ref.Alias,
			})
		}
	}

	if len(ctx.Tables) == 0 {
		for _, table := range snap.TableNames() {
			for _, col := range snap.TableColumns(table) {
				if !strings.Contains(strings.ToLower(col.Name), word) {
					continue
				}
				completions = append(completions, Completion{
					Text:        col.Name,
					Type:        "column",
					Description: fmt.Sprintf("%s from %s", col.DataType, table),
					InsertText:  col.Name,
					Priority:    priorityColumnFallback,
					Table:       table,
				})
			}
		}
	}

	return completions
}

func contextualSuggestions(ctx QueryContext, snap *schema.Snapshot) []Completion {
	var completions []Completion

	if ctx.IsAfterSelect && ctx.CurrentWord == "" {
		completions = append(completions,
			Completion{Text: "*", Type: "keyword", Description: "Select all columns", InsertText: "*", Priority: 95},
			Completion{Text: "DISTINCT", Type: "keyword", Description: "Remove duplicates", InsertText: "DISTINCT ", Priority: 80},
		)
	}

	if ctx.IsAfterWhere && ctx.CurrentWord == "" {
		completions = append(completions,
			Completion{Text: "1=1", Type: "pattern", Description: "Always true condition", InsertText: "1=1", Priority: 75},
			Completion{Text: "EXISTS", Type: "keyword", Description: "Check if subquery returns results", InsertText: "EXISTS (", Priority: 70},
		)
	}

	if ctx.IsAfterJoin && len(ctx.Tables) > 0 {
		referenced := make(map[string]struct{}, len(ctx.Tables))
		for _, ref := range ctx.Tables {
			referenced[ref.Name] = struct{}{}
		}
		for _, name := range snap.TableNames() {
			if _, ok := referenced[name]; ok {
				continue
			}
			completions = append(completions, Completion{
				Text:        name,
				Type:        "table",
				Description: fmt.Sprintf("Join with %s", name),
				InsertText:  name + " ON ",
				Priority:    85,
			})
		}
	}

	return completions
}

// rank orders completions by priority, then exact match, then prefix
// match, then alphabetically.
func rank(completions []Completion, word string) {
	sort.SliceStable(completions, func(i, j int) bool {
		a, b := completions[i], completions[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}

		al, bl := strings.ToLower(a.Text), strings.ToLower(b.Text)
		aExact, bExact := al == word, bl == word
		if aExact != bExact {
			return aExact
		}

		aStarts, bStarts := strings.HasPrefix(al, word), strings.HasPrefix(bl, word)
		if aStarts != bStarts {
			return aStarts
		}

		return al < bl
	})
}
