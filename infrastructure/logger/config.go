package logger

// Config controls logger construction. Output is always JSON.
type Config struct {
	Level       string   `env:"LOG_LEVEL"   yaml:"level"`
	Format      string   `env:"LOG_FORMAT"  yaml:"format"`
	Development bool     `env:"LOG_DEV"     yaml:"development"`
	OutputPaths []string `yaml:"output_paths"`
}

const (
	// DefaultLevel is used when no level is configured.
	DefaultLevel = "info"
	// DefaultFormat is the only supported encoding.
	DefaultFormat = "json"
)

func (c *Config) applyDefaults() {
	if c.Level == "" {
		c.Level = DefaultLevel
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if len(c.OutputPaths) == 0 {
		c.OutputPaths = []string{"stdout"}
	}
}
