// Package domain holds the canonical content types shared by every layer of
// the aggregator.
package domain

import "strings"

// Provider tags the upstream a raw record came from.
type Provider string

const (
	ProviderBlog  Provider = "blog"
	ProviderNews  Provider = "news"
	ProviderTools Provider = "tools"
)

// Providers lists every supported provider in a stable order.
func Providers() []Provider {
	return []Provider{ProviderBlog, ProviderNews, ProviderTools}
}

// ParseProvider accepts a provider tag in any case.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case ProviderBlog, ProviderNews, ProviderTools:
		return p, nil
	}
	return "", &UnknownProviderError{Provider: s}
}

func (p Provider) String() string {
	return string(p)
}
