package gin

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/logger"
)

// ServerBuilder assembles a Server fluently.
type ServerBuilder struct {
	cfg    Config
	log    logger.Logger
	routes func(*gin.Engine)
	checks map[string]HealthChecker
}

// NewServerBuilder starts a builder for service listening on port.
func NewServerBuilder(service string, port int) *ServerBuilder {
	return &ServerBuilder{
		cfg:    Config{Port: port, ServiceName: service, CORS: CORSConfig{Enabled: true}},
		checks: make(map[string]HealthChecker),
	}
}

func (b *ServerBuilder) WithLogger(log logger.Logger) *ServerBuilder {
	b.log = log
	return b
}

func (b *ServerBuilder) WithDebug(debug bool) *ServerBuilder {
	b.cfg.Debug = debug
	return b
}

func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.cfg.ServiceVersion = version
	return b
}

func (b *ServerBuilder) WithCORS(cors CORSConfig) *ServerBuilder {
	b.cfg.CORS = cors
	return b
}

func (b *ServerBuilder) WithTimeouts(read, write, idle time.Duration) *ServerBuilder {
	b.cfg.ReadTimeout = read
	b.cfg.WriteTimeout = write
	b.cfg.IdleTimeout = idle
	return b
}

// WithHealthCheck adds a named dependency check to /ready and /health.
func (b *ServerBuilder) WithHealthCheck(name string, check HealthChecker) *ServerBuilder {
	b.checks[name] = check
	return b
}

// WithRoutes registers service routes after the standard middleware.
func (b *ServerBuilder) WithRoutes(fn func(*gin.Engine)) *ServerBuilder {
	b.routes = fn
	return b
}

// Build returns the configured Server. A nil logger becomes a no-op logger.
func (b *ServerBuilder) Build() *Server {
	if b.log == nil {
		b.log = logger.NewNop()
	}

	cfg := b.cfg
	checks := b.checks
	return NewServer(&cfg, b.log, func(r *gin.Engine) {
		RegisterHealthRoutes(r, HealthOptions{
			Service: cfg.ServiceName,
			Version: cfg.ServiceVersion,
			Checks:  checks,
		})
		if b.routes != nil {
			b.routes(r)
		}
	})
}
