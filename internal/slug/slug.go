// Package slug derives URL-safe identifiers from loosely typed naming fields.
package slug

import "strings"

// Normalize lower-cases s, trims it, collapses every run of characters
// outside [a-z0-9] into a single hyphen and strips leading and trailing
// hyphens. It is total and idempotent.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// Accessor lazily yields one slug candidate.
type Accessor func() string

// Derive returns the normalization of the first candidate whose normalized
// form is non-empty, or "" when none qualifies. Candidates are given in
// precedence order: explicit slug, then human-readable name, then id.
func Derive(candidates ...Accessor) string {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if s := Normalize(c()); s != "" {
			return s
		}
	}
	return ""
}

// Of wraps a plain string.
func Of(s string) Accessor {
	return func() string { return s }
}

// FromValue reads a decoded JSON value. Strings pass through and a
// {"current": "..."} object yields its current field. Every other shape
// yields "" so objects are never rendered into a slug.
func FromValue(v any) Accessor {
	return func() string {
		switch t := v.(type) {
		case string:
			return t
		case map[string]any:
			if cur, ok := t["current"].(string); ok {
				return cur
			}
		}
		return ""
	}
}
