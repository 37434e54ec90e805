package domain

import "encoding/json"

// Author is a byline. Avatar is optional.
type Author struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Record is the canonical, provider-independent content record.
type Record struct {
	ID          string            `json:"id"`
	Provider    Provider          `json:"provider"`
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	Excerpt     string            `json:"excerpt,omitempty"`
	Category    string            `json:"category,omitempty"`
	Tags        []string          `json:"tags"`
	Author      *Author           `json:"author,omitempty"`
	Source      string            `json:"source,omitempty"`
	URL         string            `json:"url,omitempty"`
	// Link is the outbound target of a directory entry.
	Link        string            `json:"link,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
	Image       string            `json:"image,omitempty"`
	Featured    bool              `json:"featured"`
	PublishedAt string            `json:"published_at,omitempty"`

	// Hidden records are dropped before counting and filtering.
	Hidden bool `json:"-"`
	// SearchText is the provider-defined text the search predicate scans.
	SearchText string `json:"-"`
	// Raw is the untouched upstream payload.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// AuthorName returns the author name or "".
func (r *Record) AuthorName() string {
	if r.Author == nil {
		return ""
	}
	return r.Author.Name
}

// WithoutRaw returns a copy with Raw cleared.
func (r Record) WithoutRaw() Record {
	r.Raw = nil
	return r
}
