package normalizer

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/slug"
)

// Blog normalizes CMS posts.
type Blog struct {
	SiteURL string
}

type blogPost struct {
	ID            text     `json:"id"`
	Title         text     `json:"title"`
	Name          text     `json:"name"`
	Slug          anyValue `json:"slug"`
	Excerpt       text     `json:"excerpt"`
	Content       text     `json:"content"`
	Category      named    `json:"category"`
	Tags          textList `json:"tags"`
	Author        author   `json:"author"`
	FeaturedImage text     `json:"featured_image"`
	PublishedAt   text     `json:"published_at"`
	UpdatedAt     text     `json:"updated_at"`
	Status        text     `json:"status"`
	Featured      flag     `json:"featured"`
}

// author accepts {"name", "avatar"} or a bare name.
type author struct {
	Name   string
	Avatar string
}

func (a *author) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			Name   text `json:"name"`
			Avatar text `json:"avatar"`
		}
		if json.Unmarshal(b, &obj) == nil {
			a.Name, a.Avatar = obj.Name.String(), obj.Avatar.String()
		}
		return nil
	}
	a.Name = strings.TrimSpace(scalar(b))
	return nil
}

func (a author) ptr() *domain.Author {
	if a.Name == "" {
		return nil
	}
	return &domain.Author{Name: a.Name, Avatar: a.Avatar}
}

func (Blog) Provider() domain.Provider { return domain.ProviderBlog }

// Link is the canonical post URL for slug.
func (b Blog) Link(slug string) string { return link(b.SiteURL, "blog", slug) }

// Normalize maps a post. The title falls back to name. Slug precedence:
// slug, title, id. Posts with a status other than "published" are hidden.
func (b Blog) Normalize(raw json.RawMessage) (domain.Record, error) {
	var p blogPost
	if err := decodeObject(domain.ProviderBlog, raw, &p); err != nil {
		return domain.Record{}, err
	}
	title := firstNonEmpty(p.Title.String(), p.Name.String())

	rec := domain.Record{
		ID: p.ID.String(),
		Slug: slug.Derive(
			slug.FromValue(p.Slug.v),
			slug.Of(title),
			slug.Of(p.ID.String()),
		),
		Title:       title,
		Excerpt:     p.Excerpt.String(),
		Category:    string(p.Category),
		Tags:        p.Tags,
		Author:      p.Author.ptr(),
		Image:       p.FeaturedImage.String(),
		Featured:    bool(p.Featured),
		PublishedAt: firstNonEmpty(p.PublishedAt.String(), p.UpdatedAt.String()),
		SearchText:  joinNonEmpty(title, p.Excerpt.String(), p.Content.String()),
	}
	if status := strings.ToLower(p.Status.String()); status != "" && status != "published" {
		rec.Hidden = true
	}

	if err := finish(domain.ProviderBlog, &rec, raw); err != nil {
		return domain.Record{}, err
	}
	rec.URL = b.Link(rec.Slug)
	return rec, nil
}
