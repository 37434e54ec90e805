// Package normalizer adapts raw provider payloads into domain.Record values.
// Each provider has its own variant selected by an explicit provider tag.
package normalizer

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
)

// Normalizer converts one raw record. Implementations are pure.
type Normalizer interface {
	Provider() domain.Provider
	// Normalize fails only with *domain.MalformedRecordError.
	Normalize(raw json.RawMessage) (domain.Record, error)
}

// Linker is implemented by normalizers whose canonical URL is derived from
// the slug.
type Linker interface {
	Link(slug string) string
}

// Registry maps provider tags to normalizers.
type Registry struct {
	byProvider map[domain.Provider]Normalizer
}

// NewRegistry registers the given normalizers; a later one replaces an
// earlier one for the same provider.
func NewRegistry(normalizers ...Normalizer) *Registry {
	r := &Registry{byProvider: make(map[domain.Provider]Normalizer, len(normalizers))}
	for _, n := range normalizers {
		r.byProvider[n.Provider()] = n
	}
	return r
}

// Default returns a registry with the blog, news and tools variants.
// siteURL prefixes the canonical links of blog posts and tools.
func Default(siteURL string) *Registry {
	site := SiteURL(siteURL)
	return NewRegistry(Blog{SiteURL: site}, News{}, Tool{SiteURL: site})
}

// Lookup returns the normalizer for p.
func (r *Registry) Lookup(p domain.Provider) (Normalizer, error) {
	n, ok := r.byProvider[p]
	if !ok {
		return nil, &domain.UnknownProviderError{Provider: string(p)}
	}
	return n, nil
}

// Normalize converts raw with the normalizer registered for p.
func (r *Registry) Normalize(p domain.Provider, raw json.RawMessage) (domain.Record, error) {
	n, err := r.Lookup(p)
	if err != nil {
		return domain.Record{}, err
	}
	return n.Normalize(raw)
}

// SiteURL trims whitespace and trailing slashes.
func SiteURL(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "/")
}

func malformed(p domain.Provider, reason string) error {
	return &domain.MalformedRecordError{Provider: p, Reason: reason}
}

func decodeObject(p domain.Provider, raw json.RawMessage, dst any) error {
	if !isObject(raw) {
		return malformed(p, "payload is not a JSON object")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return malformed(p, "invalid JSON: "+err.Error())
	}
	return nil
}

// finish fills identity fields shared by every variant: the slug falls back
// to being the id, and a record with neither is malformed.
func finish(p domain.Provider, rec *domain.Record, raw json.RawMessage) error {
	if rec.ID == "" {
		rec.ID = rec.Slug
	}
	if rec.ID == "" {
		return malformed(p, "record has no id and no derivable slug")
	}
	if rec.Slug == "" {
		rec.Slug = rec.ID
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	rec.Provider = p
	rec.Raw = bytes.Clone(raw)
	return nil
}

func link(site, section, slug string) string {
	return site + "/" + section + "/" + slug
}
