// Package filter narrows record sets with composable predicates.
package filter

import (
	"strings"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
)

// Predicate reports whether a record is kept.
type Predicate func(*domain.Record) bool

// Predicates builds one predicate per constrained field of spec. Empty and
// whitespace-only values add nothing. Comparisons are trimmed and
// case-insensitive.
func Predicates(spec domain.FilterSpec) []Predicate {
	var preds []Predicate

	if category := fold(spec.Category); category != "" {
		preds = append(preds, func(r *domain.Record) bool {
			return fold(r.Category) == category
		})
	}
	if tag := fold(spec.Tag); tag != "" {
		preds = append(preds, func(r *domain.Record) bool {
			for _, t := range r.Tags {
				if fold(t) == tag {
					return true
				}
			}
			return false
		})
	}
	if author := fold(spec.Author); author != "" {
		preds = append(preds, func(r *domain.Record) bool {
			return fold(r.AuthorName()) == author
		})
	}
	if search := fold(spec.Search); search != "" {
		preds = append(preds, func(r *domain.Record) bool {
			return strings.Contains(strings.ToLower(r.Title), search) ||
				strings.Contains(strings.ToLower(r.SearchText), search)
		})
	}
	if spec.Featured != nil {
		want := *spec.Featured
		preds = append(preds, func(r *domain.Record) bool {
			return r.Featured == want
		})
	}

	return preds
}

// Apply returns the records matching every predicate of spec, in input
// order, as a new slice. The input is never modified.
func Apply(records []domain.Record, spec domain.FilterSpec) []domain.Record {
	return Match(records, Predicates(spec)...)
}

// Match keeps records satisfying all preds.
func Match(records []domain.Record, preds ...Predicate) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for i := range records {
		if all(&records[i], preds) {
			out = append(out, records[i])
		}
	}
	return out
}

func all(r *domain.Record, preds []Predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
