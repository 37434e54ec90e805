package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
)

// Chain tries fetchers in order and returns the first non-empty result.
// When every fetcher fails or comes back empty it returns an empty slice,
// so the provider degrades to an empty page instead of an error.
type Chain struct {
	provider domain.Provider
	fetchers []Fetcher
	log      logger.Logger
}

// NewChain builds a chain for provider. Nil fetchers are ignored.
func NewChain(provider domain.Provider, log logger.Logger, fetchers ...Fetcher) *Chain {
	if log == nil {
		log = logger.NewNop()
	}
	kept := make([]Fetcher, 0, len(fetchers))
	for _, f := range fetchers {
		if f != nil {
			kept = append(kept, f)
		}
	}
	return &Chain{provider: provider, fetchers: kept, log: log.With(logger.Provider(provider.String()))}
}

func (c *Chain) Provider() domain.Provider { return c.provider }

// Name lists the chained sources.
func (c *Chain) Name() string {
	names := make([]string, 0, len(c.fetchers))
	for _, f := range c.fetchers {
		names = append(names, NameOf(f))
	}
	return strings.Join(names, ",")
}

// Fetch only fails when ctx is done.
func (c *Chain) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	for _, f := range c.fetchers {
		records, err := f.Fetch(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			c.log.Warn("Upstream fetch failed, trying next source",
				logger.String("upstream", NameOf(f)),
				logger.Error(err),
			)
		case len(records) == 0:
			c.log.Debug("Upstream returned no records", logger.String("upstream", NameOf(f)))
		default:
			return records, nil
		}
	}

	c.log.Warn("No upstream returned records", logger.Int("sources", len(c.fetchers)))
	return []json.RawMessage{}, nil
}

// Purge clears every cache in the chain. It returns ErrNoCache when no
// member caches anything.
func (c *Chain) Purge(ctx context.Context) error {
	purged := false
	for _, f := range c.fetchers {
		p, ok := f.(Purger)
		if !ok {
			continue
		}
		err := p.Purge(ctx)
		switch {
		case errors.Is(err, ErrNoCache):
		case err != nil:
			return err
		default:
			purged = true
		}
	}
	if !purged {
		return ErrNoCache
	}
	return nil
}
