// Package aggregate computes facet counts over record sets.
package aggregate

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
)

// CategoryCounts counts records per category. Records without one count
// under domain.UncategorizedKey. Categories differing only in case share an
// entry under the first spelling seen, matching the category filter.
// Entries are sorted by count descending, then key ascending, and their
// counts sum to len(records).
func CategoryCounts(records []domain.Record) []domain.AggregateEntry {
	counts := make(map[string]int)
	spelling := make(map[string]string)
	for i := range records {
		key := strings.TrimSpace(records[i].Category)
		if key == "" {
			key = domain.UncategorizedKey
		}
		counts[spell(spelling, key)]++
	}
	return sorted(counts)
}

// TagCounts counts records per tag. Tags differing only in case share an
// entry under the first spelling seen; a record counts once per tag.
func TagCounts(records []domain.Record) []domain.AggregateEntry {
	counts := make(map[string]int)
	spelling := make(map[string]string)

	for i := range records {
		seen := make(map[string]bool, len(records[i].Tags))
		for _, tag := range records[i].Tags {
			tag = strings.TrimSpace(tag)
			folded := strings.ToLower(tag)
			if folded == "" || seen[folded] {
				continue
			}
			seen[folded] = true
			counts[spell(spelling, tag)]++
		}
	}
	return sorted(counts)
}

// spell returns the first spelling recorded for the case-folded key.
func spell(spelling map[string]string, key string) string {
	folded := strings.ToLower(key)
	if first, ok := spelling[folded]; ok {
		return first
	}
	spelling[folded] = key
	return key
}

func sorted(counts map[string]int) []domain.AggregateEntry {
	out := make([]domain.AggregateEntry, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.AggregateEntry{Key: k, Count: n})
	}
	slices.SortFunc(out, func(a, b domain.AggregateEntry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}
