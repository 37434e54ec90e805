// Package upstream fetches raw provider payloads: the CMS blog store, the
// news APIs and the tools directory. Fetchers return records untouched; the
// aggregator normalizes them.
package upstream

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
)

var (
	// ErrNotConfigured is returned by fetchers missing credentials or targets.
	ErrNotConfigured = errors.New("upstream not configured")
	// ErrNoCache is returned when purging a fetcher that caches nothing.
	ErrNoCache = errors.New("provider has no cache")
)

// Fetcher returns every raw record a provider currently exposes.
type Fetcher interface {
	Provider() domain.Provider
	Fetch(ctx context.Context) ([]json.RawMessage, error)
}

// Named is implemented by fetchers that identify their source in logs and
// metrics.
type Named interface {
	Name() string
}

// NameOf returns the fetcher's name, or its provider tag.
func NameOf(f Fetcher) string {
	if n, ok := f.(Named); ok {
		return n.Name()
	}
	return f.Provider().String()
}

// Purger is implemented by fetchers holding cached payloads.
type Purger interface {
	Purge(ctx context.Context) error
}
