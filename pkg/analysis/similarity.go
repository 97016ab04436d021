package analysis

import (
	"sort"
	"strings"
)

// similarityThreshold is the minimum normalized similarity for a name to be
// offered as a "did you mean" suggestion.
const similarityThreshold = 0.6

// maxSuggestions caps how many near-miss names are surfaced.
const maxSuggestions = 3

// Levenshtein returns the edit distance between two strings.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	return min(a, min(b, c))
}

// Similarity normalizes edit distance into [0, 1], where 1 is an exact
// match: 1 - levenshtein/max(len1, len2).
func Similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	longest := len([]rune(a))
	if lb := len([]rune(b)); lb > longest {
		longest = lb
	}
	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// FindSimilar returns up to three options whose case-insensitive similarity
// to target meets the threshold, best match first.
func FindSimilar(target string, options []string) []string {
	type scored struct {
		option     string
		similarity float64
	}

	lowered := strings.ToLower(target)
	var candidates []scored
	for _, option := range options {
		if s := Similarity(lowered, strings.ToLower(option)); s >= similarityThreshold {
			candidates = append(candidates, scored{option: option, similarity: s})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})

	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}

	result := make([]string, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, c.option)
	}
	return result
}
