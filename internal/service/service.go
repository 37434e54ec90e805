// Package service serves aggregation requests: it fetches raw provider
// payloads, runs them through the aggregation engine and records metrics.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/aggregator"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/metrics"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/upstream"
)

// ErrNotCached is returned by Purge for providers served without a cache.
var ErrNotCached = upstream.ErrNoCache

// Detail is a single record with its neighbours.
type Detail struct {
	Record     domain.Record
	Related    []domain.Record
	Navigation domain.Navigation
}

// ContentService is safe for concurrent use.
type ContentService struct {
	engine   *aggregator.Service
	fetchers map[domain.Provider]upstream.Fetcher
	metrics  *metrics.Metrics
	log      logger.Logger
}

// New wires the engine to one fetcher per provider. A nil m registers
// metrics on a private registry.
func New(
	engine *aggregator.Service,
	fetchers []upstream.Fetcher,
	m *metrics.Metrics,
	log logger.Logger,
) *ContentService {
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}
	if log == nil {
		log = logger.NewNop()
	}
	byProvider := make(map[domain.Provider]upstream.Fetcher, len(fetchers))
	for _, f := range fetchers {
		byProvider[f.Provider()] = f
	}
	return &ContentService{engine: engine, fetchers: byProvider, metrics: m, log: log}
}

// Page returns one filtered page of provider p.
func (s *ContentService) Page(
	ctx context.Context,
	p domain.Provider,
	filters domain.FilterSpec,
	req domain.PageRequest,
) (*domain.PageResult, error) {
	s.metrics.ObserveRequest(p.String())

	raws, err := s.fetch(ctx, p)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.GetPage(p, raws, filters, req)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", p, err)
	}

	s.metrics.ObservePage(p.String(), len(result.Records), result.Skipped)
	logger.FromContext(logger.WithProvider(ctx, p.String())).Debug("Aggregated page",
		logger.Int("page", result.Pagination.Page),
		logger.Int("returned", len(result.Records)),
		logger.Int("total", result.Pagination.Total),
		logger.Int("skipped", result.Skipped),
	)
	return result, nil
}

// Categories returns the category facet of provider p.
func (s *ContentService) Categories(ctx context.Context, p domain.Provider) ([]domain.AggregateEntry, error) {
	s.metrics.ObserveRequest(p.String())

	raws, err := s.fetch(ctx, p)
	if err != nil {
		return nil, err
	}
	entries, err := s.engine.Categories(p, raws)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", p, err)
	}
	return entries, nil
}

// Detail looks up a record by slug. It returns domain.ErrNotFound when no
// visible record matches.
func (s *ContentService) Detail(ctx context.Context, p domain.Provider, slug string, related int) (*Detail, error) {
	s.metrics.ObserveRequest(p.String())

	raws, err := s.fetch(ctx, p)
	if err != nil {
		return nil, err
	}

	set, err := s.engine.Prepare(p, raws)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", p, err)
	}
	rec, err := set.FindBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("find %s %q: %w", p, slug, err)
	}
	rel, err := set.Related(rec.ID, related)
	if err != nil {
		return nil, fmt.Errorf("related %s: %w", p, err)
	}
	nav, err := set.Navigation(rec.Slug)
	if err != nil {
		return nil, fmt.Errorf("navigation %s: %w", p, err)
	}

	s.metrics.ObservePage(p.String(), 1+len(rel), set.Skipped)
	return &Detail{Record: *rec, Related: rel, Navigation: nav}, nil
}

// Purge clears the raw payload cache of provider p.
func (s *ContentService) Purge(ctx context.Context, p domain.Provider) error {
	f, ok := s.fetchers[p]
	if !ok {
		return &domain.UnknownProviderError{Provider: p.String()}
	}
	purger, ok := f.(upstream.Purger)
	if !ok {
		return ErrNotCached
	}
	if err := purger.Purge(ctx); err != nil {
		return fmt.Errorf("purge %s: %w", p, err)
	}
	s.log.Info("Purged upstream cache", logger.Provider(p.String()))
	return nil
}

// Sources names the fetcher serving each provider.
func (s *ContentService) Sources() map[domain.Provider]string {
	out := make(map[domain.Provider]string, len(s.fetchers))
	for p, f := range s.fetchers {
		out[p] = upstream.NameOf(f)
	}
	return out
}

// fetch returns an empty collection for providers without a fetcher.
func (s *ContentService) fetch(ctx context.Context, p domain.Provider) ([]json.RawMessage, error) {
	f, ok := s.fetchers[p]
	if !ok {
		return []json.RawMessage{}, nil
	}
	ctx = logger.WithProvider(ctx, p.String())

	start := time.Now()
	raws, err := f.Fetch(ctx)
	s.metrics.ObserveFetch(p.String(), time.Since(start), err)
	if err != nil {
		logger.FromContext(ctx).Error("Upstream fetch failed",
			logger.String("upstream", upstream.NameOf(f)),
			logger.Error(err),
		)
		return nil, fmt.Errorf("fetch %s: %w", p, err)
	}
	return raws, nil
}
