// Package suggest finds the registered command keys closest to a mistyped key.
package suggest

import (
	"slices"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Rank returns up to limit candidates ordered from closest to farthest.
// Candidates that contain key as a case-insensitive subsequence come first,
// ordered by fuzzy distance. The rest follow by edit distance, then by length
// difference, and only those sharing at least half their length with key are
// kept. A limit <= 0 means no limit.
func Rank(key string, candidates []string, limit int) []string {
	if len(candidates) == 0 {
		return nil
	}
	sorted := slices.Clone(candidates)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	ranks := fuzzy.RankFindFold(key, sorted)
	sort.Stable(ranks)

	out := make([]string, 0, len(sorted))
	seen := make(map[string]bool, len(ranks))
	for _, r := range ranks {
		out = append(out, r.Target)
		seen[r.Target] = true
	}

	type scored struct {
		target   string
		distance int
	}
	var rest []scored
	for _, c := range sorted {
		if seen[c] {
			continue
		}
		d := fuzzy.LevenshteinDistance(key, c)
		if d*2 <= max(len(key), len(c)) {
			rest = append(rest, scored{c, d})
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].distance != rest[j].distance {
			return rest[i].distance < rest[j].distance
		}
		return lenDiff(key, rest[i].target) < lenDiff(key, rest[j].target)
	})
	for _, s := range rest {
		out = append(out, s.target)
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Closest returns the best suggestion for key, if any.
func Closest(key string, candidates []string) (string, bool) {
	best := Rank(key, candidates, 1)
	if len(best) == 0 {
		return "", false
	}
	return best[0], true
}

func lenDiff(a, b string) int {
	if len(a) > len(b) {
		return len(a) - len(b)
	}
	return len(b) - len(a)
}
