package gin_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	ginpkg "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infragin "github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/gin"
	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/logger"
)

func newRouter(mw ...ginpkg.HandlerFunc) *ginpkg.Engine {
	ginpkg.SetMode(ginpkg.TestMode)
	r := ginpkg.New()
	r.Use(mw...)
	return r
}

func TestRequestIDLoggerMiddleware_GeneratesID(t *testing.T) {
	t.Parallel()

	r := newRouter(infragin.RequestIDLoggerMiddleware(logger.NewNop()))
	r.GET("/x", func(c *ginpkg.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", http.NoBody))

	assert.Len(t, w.Header().Get(infragin.RequestIDHeader), 32)
}

func TestRequestIDLoggerMiddleware_PreservesInboundID(t *testing.T) {
	t.Parallel()

	var ctxID string
	var ctxLogger logger.Logger
	r := newRouter(infragin.RequestIDLoggerMiddleware(logger.NewNop()))
	r.GET("/x", func(c *ginpkg.Context) {
		ctxID = c.GetString(infragin.RequestIDKey)
		ctxLogger = logger.FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", http.NoBody)
	req.Header.Set(infragin.RequestIDHeader, "upstream-trace-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "upstream-trace-1", w.Header().Get(infragin.RequestIDHeader))
	assert.Equal(t, "upstream-trace-1", ctxID)
	assert.Equal(t, logger.NewNop(), ctxLogger)
}

func TestRecoveryMiddleware(t *testing.T) {
	t.Parallel()

	r := newRouter(infragin.RecoveryMiddleware(logger.NewNop()))
	r.GET("/boom", func(*ginpkg.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	cors := infragin.CORSConfig{Enabled: true, AllowedOrigins: []string{"https://site.example"}}

	tests := []struct {
		name       string
		method     string
		origin     string
		wantOrigin string
		wantCode   int
	}{
		{name: "allowed origin", method: http.MethodGet, origin: "https://site.example", wantOrigin: "https://site.example", wantCode: http.StatusOK},
		{name: "foreign origin", method: http.MethodGet, origin: "https://evil.example", wantOrigin: "", wantCode: http.StatusOK},
		{name: "preflight", method: http.MethodOptions, origin: "https://site.example", wantOrigin: "https://site.example", wantCode: http.StatusNoContent},
	}

	r := newRouter(infragin.CORSMiddleware(cors))
	r.GET("/x", func(c *ginpkg.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/x", func(c *ginpkg.Context) { c.Status(http.StatusOK) })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, "/x", http.NoBody)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

// Not parallel: Build switches the global gin mode.
func TestServerBuilder_HealthAndReady(t *testing.T) {
	srv := infragin.NewServerBuilder("content-aggregator", 0).
		WithVersion("1.2.3").
		WithHealthCheck("cms", infragin.PingChecker(func(context.Context) error { return nil }, true)).
		WithHealthCheck("redis", infragin.PingChecker(func(context.Context) error {
			return errors.New("connection refused")
		}, false)).
		WithRoutes(func(r *ginpkg.Engine) {
			r.GET("/ping", func(c *ginpkg.Context) { c.String(http.StatusOK, "pong") })
		}).
		Build()

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"1.2.3"`)

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
	assert.Equal(t, "pong", w.Body.String())
}

func TestPingChecker_CriticalFailureIsUnhealthy(t *testing.T) {
	t.Parallel()

	check := infragin.PingChecker(func(context.Context) error { return errors.New("down") }, true)
	result := check(context.Background())

	assert.Equal(t, infragin.StatusUnhealthy, result.Status)
	assert.Equal(t, "down", result.Message)
}
