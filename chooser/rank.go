// Package chooser lets the user pick a registry panel with fuzzy search.
package chooser

import (
	"sort"
	"strings"

	lev "github.com/agnivade/levenshtein"
)

// minSimilarity is the levenshtein similarity a non-substring name needs to match
const minSimilarity = 0.34

// Rank orders names by closeness to query
// Substring hits come first, earliest position first, then near misses by
// edit distance. An empty query, or one matching nothing, returns every name
// in its original order.
func Rank(query string, names []string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]string(nil), names...)
	}

	type scored struct {
		name  string
		score float64
	}
	var hits []scored
	for _, n := range names {
		lower := strings.ToLower(n)
		if i := strings.Index(lower, q); i >= 0 {
			hits = append(hits, scored{n, float64(i) / float64(len(lower)+1)})
			continue
		}
		d := lev.ComputeDistance(q, lower)
		sim := 1 - float64(d)/float64(max(len(q), len(lower)))
		if sim >= minSimilarity {
			hits = append(hits, scored{n, 2 - sim})
		}
	}
	if len(hits) == 0 {
		return append([]string(nil), names...)
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score < hits[j].score })
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}
