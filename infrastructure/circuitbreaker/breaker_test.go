package circuitbreaker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/circuitbreaker"
)

var errUpstream = errors.New("upstream failed")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func fail(context.Context) error    { return errUpstream }
func succeed(context.Context) error { return nil }

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(0, 0)}
	b := circuitbreaker.New(circuitbreaker.Config{FailureThreshold: 2, Cooldown: time.Minute, Now: clock.Now})
	ctx := context.Background()

	require.ErrorIs(t, b.Execute(ctx, fail), errUpstream)
	assert.Equal(t, circuitbreaker.Closed, b.State())
	require.ErrorIs(t, b.Execute(ctx, fail), errUpstream)
	assert.Equal(t, circuitbreaker.Open, b.State())

	called := false
	err := b.Execute(ctx, func(context.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.False(t, called)
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(0, 0)}
	var transitions []string
	b := circuitbreaker.New(circuitbreaker.Config{
		Name:             "airtable",
		FailureThreshold: 1,
		Cooldown:         time.Minute,
		Now:              clock.Now,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	})
	ctx := context.Background()

	require.Error(t, b.Execute(ctx, fail))
	clock.Advance(time.Minute)
	assert.Equal(t, circuitbreaker.HalfOpen, b.State())

	require.NoError(t, b.Execute(ctx, succeed))
	assert.Equal(t, circuitbreaker.Closed, b.State())
	assert.Equal(t, []string{
		"airtable:closed->open",
		"airtable:open->half-open",
		"airtable:half-open->closed",
	}, transitions)
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(0, 0)}
	b := circuitbreaker.New(circuitbreaker.Config{FailureThreshold: 3, Cooldown: time.Second, Now: clock.Now})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = b.Execute(ctx, fail)
	}
	clock.Advance(time.Second)

	require.Error(t, b.Execute(ctx, fail))
	assert.Equal(t, circuitbreaker.Open, b.State())
}

func TestBreaker_SuccessResetsFailures(t *testing.T) {
	t.Parallel()

	b := circuitbreaker.New(circuitbreaker.Config{FailureThreshold: 2})
	ctx := context.Background()

	_ = b.Execute(ctx, fail)
	_ = b.Execute(ctx, succeed)
	_ = b.Execute(ctx, fail)

	assert.Equal(t, circuitbreaker.Closed, b.State())
}

func TestBreaker_CancelledCallNotCounted(t *testing.T) {
	t.Parallel()

	b := circuitbreaker.New(circuitbreaker.Config{FailureThreshold: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Execute(ctx, func(ctx context.Context) error { return ctx.Err() })
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, circuitbreaker.Closed, b.State())
}
