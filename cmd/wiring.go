package cmd

import (
	"path/filepath"

	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/circuitbreaker"
	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/retry"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/config"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/upstream"
)

func defaultLimits(cfg *config.Config) map[domain.Provider]int {
	return map[domain.Provider]int{
		domain.ProviderBlog:  cfg.Providers.BlogLimit,
		domain.ProviderNews:  cfg.Providers.NewsLimit,
		domain.ProviderTools: cfg.Providers.ToolsLimit,
	}
}

// buildFetchers assembles one fetcher per provider: the live sources in
// order, cached in Redis when available, then the sample file.
func buildFetchers(cfg *config.Config, deps *dependencies, log logger.Logger) []upstream.Fetcher {
	live := map[domain.Provider][]upstream.Fetcher{}

	if deps.db != nil {
		live[domain.ProviderBlog] = append(live[domain.ProviderBlog], upstream.NewBlogStore(deps.db))
	}

	if f, err := upstream.NewMediaStackFetcher(upstream.MediaStackConfig{
		AccessKey:         cfg.News.MediaStackKey,
		BaseURL:           cfg.News.MediaStackURL,
		Keywords:          cfg.News.Keywords,
		RelevanceKeywords: cfg.News.RelevanceKeywords,
		Limit:             cfg.News.Limit,
	}, httpOptions(cfg, "mediastack", log)); err == nil {
		live[domain.ProviderNews] = append(live[domain.ProviderNews], f)
	} else {
		log.Info("MediaStack disabled", logger.Error(err))
	}

	if f, err := upstream.NewGoogleNewsFetcher(upstream.GoogleNewsConfig{
		BaseURL: cfg.News.GoogleNewsURL,
		Query:   cfg.News.GoogleNewsQuery,
	}, httpOptions(cfg, "googlenews", log)); err == nil {
		live[domain.ProviderNews] = append(live[domain.ProviderNews], f)
	} else {
		log.Info("Google News disabled", logger.Error(err))
	}

	if f, err := upstream.NewAirtableFetcher(upstream.AirtableConfig{
		Token:      cfg.Airtable.Token,
		BaseID:     cfg.Airtable.BaseID,
		Table:      cfg.Airtable.Table,
		View:       cfg.Airtable.View,
		BaseURL:    cfg.Airtable.BaseURL,
		MaxRecords: cfg.Airtable.MaxRecords,
	}, httpOptions(cfg, "airtable", log)); err == nil {
		live[domain.ProviderTools] = append(live[domain.ProviderTools], f)
	} else {
		log.Info("Airtable disabled", logger.Error(err))
	}

	out := make([]upstream.Fetcher, 0, len(domain.Providers()))
	for _, p := range domain.Providers() {
		var sources []upstream.Fetcher

		if len(live[p]) > 0 {
			var primary upstream.Fetcher = upstream.NewChain(p, log, live[p]...)
			if deps.redis != nil {
				primary = upstream.NewCachedFetcher(primary, deps.redis, cfg.Cache.TTL, log)
			}
			sources = append(sources, primary)
		}

		if cfg.Providers.SampleDir != "" {
			sample := filepath.Join(cfg.Providers.SampleDir, p.String()+".json")
			if fileExists(sample) {
				sources = append(sources, upstream.NewFileFetcher(p, sample))
			}
		}

		out = append(out, upstream.NewChain(p, log, sources...))
	}
	return out
}

func httpOptions(cfg *config.Config, name string, log logger.Logger) upstream.HTTPOptions {
	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.Upstream.MaxAttempts

	return upstream.HTTPOptions{
		Timeout: cfg.Upstream.Timeout,
		Retry:   policy,
		Logger:  log,
		Breaker: circuitbreaker.New(circuitbreaker.Config{
			Name:             name,
			FailureThreshold: cfg.Upstream.FailureThreshold,
			Cooldown:         cfg.Upstream.Cooldown,
			OnStateChange: func(name string, from, to circuitbreaker.State) {
				log.Warn("Circuit breaker state changed",
					logger.String("upstream", name),
					logger.String("from", from.String()),
					logger.String("to", to.String()),
				)
			},
		}),
	}
}
