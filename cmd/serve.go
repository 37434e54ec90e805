package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	infragin "github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/gin"
	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/logger"
	inframetrics "github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/metrics"
	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/profiling"
	infraredis "github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/redis"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/aggregator"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/api"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/config"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/metrics"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/service"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/upstream"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if debug {
		cfg.Service.Debug = true
		cfg.Logging.Level = "debug"
	}

	log, err := createLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	logger.SetDefault(log)

	if srv := profiling.StartPprof(log); srv != nil {
		defer func() { _ = srv.Close() }()
	}

	if pyro, pyroErr := profiling.StartPyroscope(cfg.Service.Name, cfg.Service.Version, log); pyroErr != nil {
		log.Warn("Pyroscope failed to start", logger.Error(pyroErr))
	} else {
		defer func() { _ = pyro.Stop() }()
	}

	log.Info("Starting content aggregator",
		logger.String("name", cfg.Service.Name),
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
		logger.Bool("debug", cfg.Service.Debug),
	)

	deps, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine := aggregator.New(aggregator.Options{
		SiteURL:       cfg.Service.SiteURL,
		MaxLimit:      cfg.Pagination.MaxLimit,
		DefaultLimits: defaultLimits(cfg),
		Logger:        log,
	})
	fetchers := buildFetchers(cfg, deps, log)
	content := service.New(engine, fetchers, metrics.New(reg), log)
	for p, name := range content.Sources() {
		log.Info("Provider source", logger.Provider(p.String()), logger.String("upstream", name))
	}

	handler := api.NewHandler(content, log)
	httpMetrics := inframetrics.NewHTTP("aggregator", reg)

	builder := infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithCORS(infragin.CORSConfig{
			Enabled:          cfg.CORS.Enabled,
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   cfg.CORS.AllowedMethods,
			AllowedHeaders:   cfg.CORS.AllowedHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}).
		WithRoutes(func(r *gin.Engine) {
			api.SetupRoutes(r, handler, api.RouteOptions{
				JWTSecret:   cfg.Auth.JWTSecret,
				HTTPMetrics: httpMetrics,
			})
		})
	if deps.db != nil {
		builder = builder.WithHealthCheck("postgres", infragin.PingChecker(deps.db.PingContext, false))
	}
	if deps.redis != nil {
		builder = builder.WithHealthCheck("redis", infragin.PingChecker(infraredis.Ping(deps.redis), false))
	}

	if runErr := builder.Build().Run(ctx); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return runErr
	}
	log.Info("Content aggregator exited cleanly")
	return nil
}

func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, err
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// dependencies are the optional backing stores.
type dependencies struct {
	db    *sqlx.DB
	redis *goredis.Client
}

// connect opens the CMS database and Redis when configured. A configured
// but unreachable Redis only disables caching; an unreachable database is
// fatal.
func connect(ctx context.Context, cfg *config.Config, log logger.Logger) (*dependencies, error) {
	deps := &dependencies{}

	if cfg.Database.Enabled() {
		db, err := upstream.OpenPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		log.Info("Connected to CMS database", logger.String("host", cfg.Database.Host))
		deps.db = db
	}

	if cfg.Redis.Enabled() {
		client, err := infraredis.Connect(ctx, infraredis.Config{
			Address:    cfg.Redis.Address,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			ClientName: cfg.Service.Name,
		})
		if err != nil {
			log.Warn("Redis unavailable, upstream caching disabled", logger.Error(err))
		} else {
			deps.redis = client
		}
	}

	return deps, nil
}

func (d *dependencies) close() {
	if d.db != nil {
		_ = d.db.Close()
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
