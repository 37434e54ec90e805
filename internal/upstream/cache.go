package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
)

const (
	// DefaultCacheTTL applies when CachedFetcher is given no TTL.
	DefaultCacheTTL = 5 * time.Minute
	cacheKeyPrefix  = "aggregator:raw:"
)

// CacheKey is the Redis key holding a provider's raw records.
func CacheKey(p domain.Provider) string {
	return cacheKeyPrefix + p.String()
}

// CachedFetcher serves raw records from Redis and refills on a miss. Redis
// failures fall through to the wrapped fetcher.
type CachedFetcher struct {
	next   Fetcher
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

func NewCachedFetcher(next Fetcher, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &CachedFetcher{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log.With(logger.Provider(next.Provider().String())),
	}
}

func (c *CachedFetcher) Provider() domain.Provider { return c.next.Provider() }
func (c *CachedFetcher) Name() string              { return "cache(" + NameOf(c.next) + ")" }

func (c *CachedFetcher) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	key := CacheKey(c.Provider())

	cached, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var records []json.RawMessage
		if jsonErr := json.Unmarshal(cached, &records); jsonErr == nil {
			return records, nil
		}
		c.log.Warn("Discarding corrupt cache entry", logger.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("Cache read failed", logger.String("key", key), logger.Error(err))
	}

	records, err := c.next.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return records, nil
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return records, nil
	}
	if err = c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("Cache write failed", logger.String("key", key), logger.Error(err))
	}
	return records, nil
}

// Purge drops the cached records so the next Fetch goes upstream.
func (c *CachedFetcher) Purge(ctx context.Context) error {
	if err := c.client.Del(ctx, CacheKey(c.Provider())).Err(); err != nil {
		return fmt.Errorf("purge cache: %w", err)
	}
	return nil
}
