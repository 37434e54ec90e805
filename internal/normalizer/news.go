package normalizer

import (
	"encoding/json"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/slug"
)

// News normalizes articles from the news aggregation APIs. Articles carry
// no tags upstream, and language and country are not mapped.
type News struct{}

type newsArticle struct {
	ID          text     `json:"id"`
	Slug        anyValue `json:"slug"`
	Title       text     `json:"title"`
	Description text     `json:"description"`
	URL         text     `json:"url"`
	Source      named    `json:"source"`
	Author      text     `json:"author"`
	Category    named    `json:"category"`
	PublishedAt text     `json:"published_at"`
	// publishedAt and urlToImage come from NewsAPI-shaped feeds.
	PublishedAtCamel text `json:"publishedAt"`
	Image            text `json:"image"`
	URLToImage       text `json:"urlToImage"`
}

func (News) Provider() domain.Provider { return domain.ProviderNews }

// Normalize maps an article. Its identity is the id, else the URL; the slug
// comes from an explicit slug, the title, then that identity. The source
// doubles as the author when no author is given.
func (News) Normalize(raw json.RawMessage) (domain.Record, error) {
	var a newsArticle
	if err := decodeObject(domain.ProviderNews, raw, &a); err != nil {
		return domain.Record{}, err
	}

	identity := firstNonEmpty(a.ID.String(), a.URL.String())
	source := string(a.Source)

	rec := domain.Record{
		ID: identity,
		Slug: slug.Derive(
			slug.FromValue(a.Slug.v),
			slug.Of(a.Title.String()),
			slug.Of(identity),
		),
		Title:       a.Title.String(),
		Excerpt:     a.Description.String(),
		Category:    string(a.Category),
		Source:      source,
		URL:         a.URL.String(),
		Image:       firstNonEmpty(a.Image.String(), a.URLToImage.String()),
		PublishedAt: firstNonEmpty(a.PublishedAt.String(), a.PublishedAtCamel.String()),
		SearchText:  joinNonEmpty(a.Title.String(), a.Description.String()),
	}
	if name := firstNonEmpty(a.Author.String(), source); name != "" {
		rec.Author = &domain.Author{Name: name}
	}

	if err := finish(domain.ProviderNews, &rec, raw); err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}
