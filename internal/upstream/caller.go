package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/circuitbreaker"
	infraerrors "github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/errors"
	infrahttp "github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/http"
	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/retry"
)

// maxResponseBytes bounds upstream bodies.
const maxResponseBytes = 16 << 20

// HTTPOptions are shared by the HTTP fetchers. Zero values take defaults.
type HTTPOptions struct {
	Client  *http.Client
	Retry   retry.Policy
	Breaker *circuitbreaker.Breaker
	Logger  logger.Logger
	Timeout time.Duration
}

// caller performs GET requests through a circuit breaker with retries.
type caller struct {
	name    string
	client  *http.Client
	policy  retry.Policy
	breaker *circuitbreaker.Breaker
	log     logger.Logger
}

func newCaller(name string, opts HTTPOptions) *caller {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Client == nil {
		opts.Client = infrahttp.NewClient(infrahttp.Options{Timeout: opts.Timeout})
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.DefaultPolicy()
	}
	if opts.Retry.Retryable == nil {
		opts.Retry.Retryable = infraerrors.IsRetryable
	}
	log := opts.Logger.With(logger.String("upstream", name))
	if opts.Breaker == nil {
		opts.Breaker = circuitbreaker.New(circuitbreaker.Config{
			Name: name,
			OnStateChange: func(_ string, from, to circuitbreaker.State) {
				log.Warn("Circuit breaker state changed",
					logger.String("from", from.String()),
					logger.String("to", to.String()),
				)
			},
		})
	}

	return &caller{
		name:    name,
		client:  opts.Client,
		policy:  opts.Retry,
		breaker: opts.Breaker,
		log:     log,
	}
}

// get returns the body of a successful GET. header may be nil.
func (c *caller) get(ctx context.Context, target string, header http.Header) ([]byte, error) {
	var body []byte

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return retry.Do(ctx, c.policy, func(ctx context.Context) error {
			b, err := c.once(ctx, target, header)
			if err != nil {
				c.log.Debug("Upstream request failed", logger.Error(err))
				return err
			}
			body = b
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}
	return body, nil
}

func (c *caller) once(ctx context.Context, target string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// Query strings carry API keys.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = req.URL.Scheme + "://" + req.URL.Host + req.URL.Path
		}
		return nil, fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if httpErr := infraerrors.FromResponse(resp); httpErr != nil {
		return nil, httpErr
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return b, nil
}
