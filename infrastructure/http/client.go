// Package http builds the outbound HTTP clients used for upstream providers.
package http

import (
	"net/http"
	"time"
)

const (
	DefaultTimeout         = 15 * time.Second
	DefaultUserAgent       = "north-cloud-content-aggregator/1.0"
	defaultIdleConns       = 32
	defaultIdleConnTimeout = 90 * time.Second
)

// Options tunes NewClient. Zero values take defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Transport overrides the base round tripper. Tests point it at httptest.
	Transport http.RoundTripper
}

// NewClient returns a client with a request timeout and a fixed User-Agent.
func NewClient(opts Options) *http.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	base := opts.Transport
	if base == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.MaxIdleConns = defaultIdleConns
		t.MaxIdleConnsPerHost = defaultIdleConns / 4
		t.IdleConnTimeout = defaultIdleConnTimeout
		base = t
	}

	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: &userAgent{agent: opts.UserAgent, next: base},
	}
}

type userAgent struct {
	agent string
	next  http.RoundTripper
}

func (u *userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", u.agent)
	return u.next.RoundTrip(clone)
}
