package normalizer

import (
	"encoding/json"
	"strings"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/slug"
)

// Tool normalizes affiliate directory entries stored as Airtable records:
//
//	{"id": "rec…", "createdTime": "…", "fields": {"Name": …, …}}
//
// or flattened into a single object, {"id": "rec…", "Name": …, …}.
type Tool struct {
	SiteURL string
}

type airtableRecord struct {
	ID          text            `json:"id"`
	CreatedTime text            `json:"createdTime"`
	Fields      json.RawMessage `json:"fields"`
}

type toolFields struct {
	Name          text       `json:"Name"`
	CleanedName   text       `json:"CleanedName"`
	Slug          anyValue   `json:"slug"`
	Category      named      `json:"Category"`
	Description   text       `json:"Description"`
	Highlight     text       `json:"Highlight"`
	Features      textList   `json:"Features"`
	Tags          textList   `json:"Tags"`
	Type          named      `json:"Type"`
	Logo          attachment `json:"Logo"`
	Image         attachment `json:"Image"`
	Website       text       `json:"Website"`
	Domain        text       `json:"Domain"`
	AffiliateLink text       `json:"AffiliateLink"`
	Pricing       text       `json:"Pricing"`
	Rating        text       `json:"Rating"`
	Badge         text       `json:"Badge"`
	Featured      flag       `json:"Featured"`
	DontShow      flag       `json:"DontShow"`
}

// details keeps the listing attributes a directory page renders.
func (f toolFields) details() map[string]string {
	out := make(map[string]string, 3)
	for k, v := range map[string]text{"pricing": f.Pricing, "rating": f.Rating, "badge": f.Badge} {
		if v.String() != "" {
			out[k] = v.String()
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (Tool) Provider() domain.Provider { return domain.ProviderTools }

// Link is the canonical directory URL for slug.
func (t Tool) Link(slug string) string { return link(t.SiteURL, "tools", slug) }

// Normalize maps a tool. Slug precedence: slug, CleanedName, Name, record id.
// Tags come from Tags, else the Type. DontShow hides the record. Link is
// the outbound target: AffiliateLink, then Website, then Domain.
func (t Tool) Normalize(raw json.RawMessage) (domain.Record, error) {
	var r airtableRecord
	if err := decodeObject(domain.ProviderTools, raw, &r); err != nil {
		return domain.Record{}, err
	}

	fieldsRaw := raw
	if isObject(r.Fields) {
		fieldsRaw = r.Fields
	}
	var f toolFields
	if err := decodeObject(domain.ProviderTools, fieldsRaw, &f); err != nil {
		return domain.Record{}, err
	}

	tags := []string(f.Tags)
	if len(tags) == 0 && f.Type != "" {
		tags = []string{string(f.Type)}
	}

	rec := domain.Record{
		ID: r.ID.String(),
		Slug: slug.Derive(
			slug.FromValue(f.Slug.v),
			slug.Of(f.CleanedName.String()),
			slug.Of(f.Name.String()),
			slug.Of(r.ID.String()),
		),
		Title:       f.Name.String(),
		Excerpt:     firstNonEmpty(f.Highlight.String(), f.Description.String()),
		Category:    string(f.Category),
		Tags:        tags,
		Link:        firstNonEmpty(f.AffiliateLink.String(), f.Website.String(), f.Domain.String()),
		Details:     f.details(),
		Image:       firstNonEmpty(string(f.Logo), string(f.Image)),
		Featured:    bool(f.Featured),
		Hidden:      bool(f.DontShow),
		PublishedAt: r.CreatedTime.String(),
		SearchText: joinNonEmpty(
			f.Name.String(),
			f.Description.String(),
			f.Highlight.String(),
			strings.Join(f.Features, " "),
		),
	}

	if err := finish(domain.ProviderTools, &rec, raw); err != nil {
		return domain.Record{}, err
	}
	rec.URL = t.Link(rec.Slug)
	return rec, nil
}
