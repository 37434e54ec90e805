package gin

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus is the overall or per-check status.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

const checkTimeout = 2 * time.Second

// HealthResponse is the body of /health and /ready.
type HealthResponse struct {
	Status  HealthStatus           `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Uptime  string                 `json:"uptime,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is one dependency outcome.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// HealthChecker probes a dependency.
type HealthChecker func(ctx context.Context) CheckResult

// HealthOptions configures RegisterHealthRoutes.
type HealthOptions struct {
	Service string
	Version string
	Checks  map[string]HealthChecker
}

var (
	startOnce sync.Once
	startedAt time.Time
)

// RegisterHealthRoutes adds:
//
//	GET  /health  liveness with uptime
//	HEAD /health  load balancer probe
//	GET  /ready   runs every check; 503 when one is unhealthy
func RegisterHealthRoutes(r *gin.Engine, opts HealthOptions) {
	startOnce.Do(func() { startedAt = time.Now() })

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:  StatusHealthy,
			Service: opts.Service,
			Version: opts.Version,
			Uptime:  time.Since(startedAt).Round(time.Second).String(),
		})
	})
	r.HEAD("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/ready", func(c *gin.Context) {
		resp := runChecks(c.Request.Context(), opts)
		code := http.StatusOK
		if resp.Status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	})
}

func runChecks(ctx context.Context, opts HealthOptions) HealthResponse {
	resp := HealthResponse{Status: StatusHealthy, Service: opts.Service, Version: opts.Version}
	if len(opts.Checks) == 0 {
		return resp
	}

	resp.Checks = make(map[string]CheckResult, len(opts.Checks))
	for name, check := range opts.Checks {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		result := check(checkCtx)
		cancel()

		resp.Checks[name] = result
		switch {
		case result.Status == StatusUnhealthy:
			resp.Status = StatusUnhealthy
		case result.Status == StatusDegraded && resp.Status == StatusHealthy:
			resp.Status = StatusDegraded
		}
	}
	return resp
}

// PingChecker wraps a ping function. Failures of a critical dependency report
// unhealthy; others report degraded.
func PingChecker(ping func(ctx context.Context) error, critical bool) HealthChecker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		err := ping(ctx)
		latency := time.Since(start).String()

		if err == nil {
			return CheckResult{Status: StatusHealthy, Latency: latency}
		}
		status := StatusDegraded
		if critical {
			status = StatusUnhealthy
		}
		return CheckResult{Status: status, Message: err.Error(), Latency: latency}
	}
}
