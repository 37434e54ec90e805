package logger_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/logger"
)

func newFileLogger(t *testing.T) logger.Logger {
	t.Helper()

	l, err := logger.New(logger.Config{
		Level:       "debug",
		OutputPaths: []string{filepath.Join(t.TempDir(), "out.log")},
	})
	require.NoError(t, err)

	return l
}

func TestFromContext_ReturnsStoredLogger(t *testing.T) {
	t.Parallel()

	l := newFileLogger(t)
	ctx := logger.WithContext(context.Background(), l)

	assert.Same(t, l, logger.FromContext(ctx))
}

func TestFromContext_LaterValueWins(t *testing.T) {
	t.Parallel()

	first := newFileLogger(t)
	second := newFileLogger(t)

	ctx := logger.WithContext(context.Background(), first)
	ctx = logger.WithContext(ctx, second)

	assert.Same(t, second, logger.FromContext(ctx))
}

func TestFromContext_FallbackIsUsable(t *testing.T) {
	t.Parallel()

	l := logger.FromContext(context.Background())
	require.NotNil(t, l)

	assert.NotPanics(t, func() {
		l.Info("filtered at warn level")
		l.Warn("fallback", logger.Provider("news"), logger.Int("skipped", 2))
	})
}

func TestWithProvider_WrapsContextLogger(t *testing.T) {
	t.Parallel()

	l := newFileLogger(t)
	ctx := logger.WithProvider(logger.WithContext(context.Background(), l), "news")

	tagged := logger.FromContext(ctx)
	require.NotNil(t, tagged)
	assert.NotSame(t, l, tagged)
	assert.NotPanics(t, func() { tagged.Info("tagged entry") })
}

func TestSetDefault_UsedWithoutContextLogger(t *testing.T) {
	l := newFileLogger(t)
	logger.SetDefault(l)
	t.Cleanup(func() { logger.SetDefault(nil) })

	assert.Same(t, l, logger.FromContext(context.Background()))

	scoped := newFileLogger(t)
	assert.Same(t, scoped, logger.FromContext(logger.WithContext(context.Background(), scoped)))
}

func TestWith_ReturnsChildLogger(t *testing.T) {
	t.Parallel()

	l := newFileLogger(t)
	child := l.With(logger.String("component", "aggregator"))

	require.NotNil(t, child)
	assert.NotSame(t, l, child)
	assert.NotPanics(t, func() { child.Debug("child entry") })
}

func TestNewNop_WithReturnsNop(t *testing.T) {
	t.Parallel()

	n := logger.NewNop()
	assert.Equal(t, n, n.With(logger.Bool("x", true)))
	assert.NoError(t, n.Sync())
}
