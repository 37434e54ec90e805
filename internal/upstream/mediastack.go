package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
)

const defaultMediaStackURL = "http://api.mediastack.com/v1/news"

// MediaStackConfig configures MediaStackFetcher.
type MediaStackConfig struct {
	AccessKey string
	// BaseURL defaults to the public endpoint.
	BaseURL  string
	Keywords []string
	// RelevanceKeywords drop articles whose title and description mention
	// none of them. Empty keeps everything.
	RelevanceKeywords []string
	Languages         string
	Limit             int
}

// MediaStackFetcher reads news articles from the MediaStack JSON API.
type MediaStackFetcher struct {
	cfg    MediaStackConfig
	caller *caller
}

// NewMediaStackFetcher builds a fetcher. It fails with ErrNotConfigured
// without an access key.
func NewMediaStackFetcher(cfg MediaStackConfig, opts HTTPOptions) (*MediaStackFetcher, error) {
	if cfg.AccessKey == "" {
		return nil, fmt.Errorf("mediastack: %w", ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultMediaStackURL
	}
	if cfg.Languages == "" {
		cfg.Languages = "en"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 50
	}
	return &MediaStackFetcher{cfg: cfg, caller: newCaller("mediastack", opts)}, nil
}

func (f *MediaStackFetcher) Provider() domain.Provider { return domain.ProviderNews }
func (f *MediaStackFetcher) Name() string              { return "mediastack" }

type mediaStackResponse struct {
	Data []json.RawMessage `json:"data"`
}

// Fetch requests the newest articles for the configured keywords.
func (f *MediaStackFetcher) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set("access_key", f.cfg.AccessKey)
	q.Set("languages", f.cfg.Languages)
	q.Set("limit", strconv.Itoa(f.cfg.Limit))
	q.Set("sort", "published_desc")
	if len(f.cfg.Keywords) > 0 {
		q.Set("keywords", strings.Join(f.cfg.Keywords, ","))
	}

	body, err := f.caller.get(ctx, f.cfg.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp mediaStackResponse
	if err = json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("mediastack: decode response: %w", err)
	}

	return filterRelevant(resp.Data, f.cfg.RelevanceKeywords), nil
}

// filterRelevant keeps articles whose title or description contains a
// keyword, case-insensitively.
func filterRelevant(items []json.RawMessage, keywords []string) []json.RawMessage {
	if items == nil {
		items = []json.RawMessage{}
	}
	if len(keywords) == 0 {
		return items
	}

	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}

	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		var a struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		// Type mismatches leave the fields empty; the article is then dropped.
		_ = json.Unmarshal(item, &a)

		haystack := strings.ToLower(a.Title + " " + a.Description)
		for _, k := range lowered {
			if strings.Contains(haystack, k) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
