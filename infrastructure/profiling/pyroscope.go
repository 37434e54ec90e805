package profiling

import (
	"fmt"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"

	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/logger"
)

// Profiler wraps a running Pyroscope session. A nil Profiler is valid.
type Profiler struct {
	p *pyroscope.Profiler
}

// StartPyroscope pushes continuous profiles when
// ENABLE_CONTINUOUS_PROFILING=true. PYROSCOPE_SERVER_URL and
// PYROSCOPE_ENVIRONMENT tune the target. Returns nil, nil when disabled.
func StartPyroscope(service, version string, log logger.Logger) (*Profiler, error) {
	if os.Getenv("ENABLE_CONTINUOUS_PROFILING") != "true" {
		return nil, nil
	}

	server := envOr("PYROSCOPE_SERVER_URL", "http://pyroscope:4040")
	env := envOr("PYROSCOPE_ENVIRONMENT", "development")
	host, _ := os.Hostname()

	p, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: "north-cloud." + service,
		ServerAddress:   server,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Tags: map[string]string{
			"environment": env,
			"version":     version,
			"hostname":    host,
			"go_version":  runtime.Version(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}

	log.Info("continuous profiling started",
		logger.String("server", server),
		logger.String("environment", env),
	)
	return &Profiler{p: p}, nil
}

// Stop flushes and stops the profiler.
func (p *Profiler) Stop() error {
	if p == nil || p.p == nil {
		return nil
	}
	return p.p.Stop()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
