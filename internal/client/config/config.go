package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the biblio CLI.
type Config struct {
	APIBaseURL          string        `env:"BIBLIO_API_BASE_URL"`
	StorePath           string        `env:"BIBLIO_STORE_PATH"`
	RequestTimeout      time.Duration `env:"BIBLIO_REQUEST_TIMEOUT"`
	MetricsAddr         string        `env:"BIBLIO_METRICS_ADDR"`
	OTelEndpoint        string        `env:"BIBLIO_OTEL_ENDPOINT"`
	RecommendationLimit int           `env:"BIBLIO_RECOMMENDATION_LIMIT"`
	CatalogPageSize     int           `env:"BIBLIO_CATALOG_PAGE_SIZE"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.StorePath = "biblio.db"
	c.RequestTimeout = 30 * time.Second
	c.MetricsAddr = ""
	c.OTelEndpoint = ""
	c.RecommendationLimit = 10
	c.CatalogPageSize = 12
}

// LoadConfig constructs a Config from defaults, then overlays JSON (if
// requested in args), environment and flags found in args. args excludes
// the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url must not be empty")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative")
	}
	if c.RecommendationLimit <= 0 || c.CatalogPageSize <= 0 {
		return fmt.Errorf("limits must be positive")
	}
	return nil
}
