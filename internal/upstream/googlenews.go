package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
)

const (
	defaultGoogleNewsURL = "https://news.google.com/rss"
	// PlaceholderImage is used for articles without any image.
	PlaceholderImage     = "/images/news-placeholder.jpg"
	maxDescriptionLen    = 200
	httpPrefix           = "http"
)

// GoogleNewsConfig configures GoogleNewsFetcher.
type GoogleNewsConfig struct {
	// BaseURL defaults to the public RSS root.
	BaseURL string
	Query   string
}

// GoogleNewsFetcher reads the Google News RSS search feed and reshapes each
// item into a news article object.
type GoogleNewsFetcher struct {
	cfg    GoogleNewsConfig
	caller *caller
}

// NewGoogleNewsFetcher fails with ErrNotConfigured without a query.
func NewGoogleNewsFetcher(cfg GoogleNewsConfig, opts HTTPOptions) (*GoogleNewsFetcher, error) {
	if strings.TrimSpace(cfg.Query) == "" {
		return nil, fmt.Errorf("google news: %w", ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGoogleNewsURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &GoogleNewsFetcher{cfg: cfg, caller: newCaller("googlenews", opts)}, nil
}

func (f *GoogleNewsFetcher) Provider() domain.Provider { return domain.ProviderNews }
func (f *GoogleNewsFetcher) Name() string              { return "googlenews" }

// rssArticle is the article shape handed to the news normalizer.
type rssArticle struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	Source      string `json:"source"`
	Category    string `json:"category"`
	PublishedAt string `json:"published_at,omitempty"`
}

// Fetch downloads and parses the feed.
func (f *GoogleNewsFetcher) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set("q", f.cfg.Query)
	q.Set("hl", "en-US")
	q.Set("gl", "US")
	q.Set("ceid", "US:en")

	body, err := f.caller.get(ctx, f.cfg.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return parseRSS(ctx, string(body))
}

// parseRSS converts feed items into article objects. Items without a usable
// link are skipped.
func parseRSS(ctx context.Context, body string) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	parsed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	out := make([]json.RawMessage, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		link := itemLink(item)
		if link == "" {
			continue
		}

		article := rssArticle{
			ID:          firstOf(item.GUID, link),
			Title:       firstOf(strings.TrimSpace(item.Title), "Untitled"),
			Description: summarize(item.Description),
			URL:         link,
			Image:       itemImage(item),
			Source:      itemSource(item),
			Category:    "general",
			PublishedAt: formatPublished(item.PublishedParsed),
		}
		b, err := json.Marshal(article)
		if err != nil {
			return nil, fmt.Errorf("encode article: %w", err)
		}
		out = append(out, b)
	}
	return out, nil
}

func itemLink(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if strings.HasPrefix(item.GUID, httpPrefix) {
		return item.GUID
	}
	return ""
}

func itemSource(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil && item.Authors[0].Name != "" {
		return item.Authors[0].Name
	}
	return "Google News"
}

// itemImage checks media extensions, then image enclosures, then the feed
// image, then the first <img> in the description.
func itemImage(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, key := range []string{"content", "thumbnail"} {
			for _, ext := range media[key] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}
	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(item.Description)); err == nil {
		if src, ok := doc.Find("img").First().Attr("src"); ok && src != "" {
			return src
		}
	}
	return PlaceholderImage
}

// summarize strips markup, collapses whitespace and truncates.
func summarize(html string) string {
	text := html
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) > maxDescriptionLen {
		return strings.TrimSpace(string(runes[:maxDescriptionLen])) + "..."
	}
	return text
}

func formatPublished(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
