package config

import (
	"fmt"
	"time"

	infraconfig "github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/config"
)

// Config holds all configuration for the content aggregator.
type Config struct {
	Service    ServiceConfig              `yaml:"service"`
	Pagination PaginationConfig           `yaml:"pagination"`
	Providers  ProvidersConfig            `yaml:"providers"`
	Database   infraconfig.DatabaseConfig `yaml:"database"`
	Redis      infraconfig.RedisConfig    `yaml:"redis"`
	Cache      CacheConfig                `yaml:"cache"`
	News       NewsConfig                 `yaml:"news"`
	Airtable   AirtableConfig             `yaml:"airtable"`
	Upstream   UpstreamConfig             `yaml:"upstream"`
	Auth       AuthConfig                 `yaml:"auth"`
	Logging    infraconfig.LoggingConfig  `yaml:"logging"`
	CORS       CORSConfig                 `yaml:"cors"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `yaml:"port"     env:"AGGREGATOR_PORT"`
	Debug   bool   `yaml:"debug"    env:"AGGREGATOR_DEBUG"`
	// SiteURL prefixes canonical blog and tool links.
	SiteURL string `yaml:"site_url" env:"SITE_URL"`
}

// PaginationConfig bounds page sizes.
type PaginationConfig struct {
	MaxLimit int `yaml:"max_limit" env:"AGGREGATOR_MAX_LIMIT"`
}

// ProvidersConfig sets per-provider default page sizes and sample data.
type ProvidersConfig struct {
	BlogLimit  int `yaml:"blog_limit"`
	NewsLimit  int `yaml:"news_limit"`
	ToolsLimit int `yaml:"tools_limit"`
	// SampleDir holds blog.json, news.json and tools.json used when every
	// live source of a provider fails.
	SampleDir string `yaml:"sample_dir" env:"AGGREGATOR_SAMPLE_DIR"`
}

// CacheConfig controls the Redis raw payload cache.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" env:"CACHE_TTL"`
}

// NewsConfig configures the news sources, tried MediaStack first.
type NewsConfig struct {
	MediaStackKey     string   `yaml:"mediastack_key"     env:"MEDIASTACK_API_KEY"`
	MediaStackURL     string   `yaml:"mediastack_url"`
	Keywords          []string `yaml:"keywords"           env:"NEWS_KEYWORDS"`
	RelevanceKeywords []string `yaml:"relevance_keywords"`
	Limit             int      `yaml:"limit"`
	GoogleNewsURL     string   `yaml:"google_news_url"`
	GoogleNewsQuery   string   `yaml:"google_news_query"  env:"GOOGLE_NEWS_QUERY"`
}

// AirtableConfig configures the tools directory source.
type AirtableConfig struct {
	Token      string `yaml:"token"       env:"AIRTABLE_TOKEN"`
	BaseID     string `yaml:"base_id"     env:"AIRTABLE_BASE_ID"`
	Table      string `yaml:"table"       env:"AIRTABLE_TABLE"`
	View       string `yaml:"view"`
	BaseURL    string `yaml:"base_url"`
	MaxRecords int    `yaml:"max_records"`
}

// UpstreamConfig tunes HTTP calls to the news and tools APIs.
type UpstreamConfig struct {
	Timeout          time.Duration `yaml:"timeout"`
	MaxAttempts      int           `yaml:"max_attempts"`
	FailureThreshold int           `yaml:"failure_threshold"`
	Cooldown         time.Duration `yaml:"cooldown"`
}

// AuthConfig holds the secret validating admin bearer tokens.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Enabled          bool          `yaml:"enabled"`
	AllowedOrigins   []string      `yaml:"allowed_origins"   env:"CORS_ORIGINS"`
	AllowedMethods   []string      `yaml:"allowed_methods"`
	AllowedHeaders   []string      `yaml:"allowed_headers"`
	AllowCredentials bool          `yaml:"allow_credentials"`
	MaxAge           time.Duration `yaml:"max_age"`
}

// Load loads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults[Config](path, setDefaults)
	if err != nil {
		return nil, err
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "content-aggregator"
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = "1.0.0"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = 8095
	}

	if cfg.Pagination.MaxLimit == 0 {
		cfg.Pagination.MaxLimit = 100
	}
	if cfg.Providers.BlogLimit == 0 {
		cfg.Providers.BlogLimit = 10
	}
	if cfg.Providers.NewsLimit == 0 {
		cfg.Providers.NewsLimit = 20
	}
	if cfg.Providers.ToolsLimit == 0 {
		cfg.Providers.ToolsLimit = 20
	}

	if cfg.Database.Enabled() {
		cfg.Database.SetDefaults()
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}

	if len(cfg.News.Keywords) == 0 {
		cfg.News.Keywords = []string{"artificial intelligence", "machine learning", "AI tools"}
	}
	if len(cfg.News.RelevanceKeywords) == 0 {
		cfg.News.RelevanceKeywords = []string{"ai", "artificial intelligence", "machine learning", "llm", "gpt"}
	}
	if cfg.News.Limit == 0 {
		cfg.News.Limit = 50
	}
	if cfg.News.GoogleNewsQuery == "" {
		cfg.News.GoogleNewsQuery = "artificial intelligence"
	}

	if cfg.Airtable.Table == "" {
		cfg.Airtable.Table = "Tools"
	}
	if cfg.Airtable.MaxRecords == 0 {
		cfg.Airtable.MaxRecords = 1000
	}

	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 15 * time.Second
	}
	if cfg.Upstream.MaxAttempts == 0 {
		cfg.Upstream.MaxAttempts = 3
	}
	if cfg.Upstream.FailureThreshold == 0 {
		cfg.Upstream.FailureThreshold = 5
	}
	if cfg.Upstream.Cooldown == 0 {
		cfg.Upstream.Cooldown = 30 * time.Second
	}

	cfg.Logging.SetDefaults()

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "HEAD", "DELETE", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidatePositive("pagination.max_limit", c.Pagination.MaxLimit); err != nil {
		return err
	}
	limits := []struct {
		field string
		n     int
	}{
		{"providers.blog_limit", c.Providers.BlogLimit},
		{"providers.news_limit", c.Providers.NewsLimit},
		{"providers.tools_limit", c.Providers.ToolsLimit},
	}
	for _, l := range limits {
		if err := infraconfig.ValidatePositive(l.field, l.n); err != nil {
			return err
		}
	}
	if c.Database.Enabled() {
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}
	return c.Logging.Validate()
}
