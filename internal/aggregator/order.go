package aggregator

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseTime reads the publication timestamps seen across providers.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortNewestFirst orders records by publication time descending. Records
// whose time cannot be parsed go last; ties break on id ascending so the
// order is total and stable across calls.
func SortNewestFirst(records []domain.Record) {
	type keyed struct {
		rec domain.Record
		t   time.Time
		ok  bool
	}
	items := make([]keyed, len(records))
	for i := range records {
		t, ok := ParseTime(records[i].PublishedAt)
		items[i] = keyed{rec: records[i], t: t, ok: ok}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case a.ok && !b.ok:
			return -1
		case !a.ok && b.ok:
			return 1
		case a.ok && b.ok && !a.t.Equal(b.t):
			return b.t.Compare(a.t)
		}
		return cmp.Compare(a.rec.ID, b.rec.ID)
	})

	for i := range items {
		records[i] = items[i].rec
	}
}
