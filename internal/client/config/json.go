package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/biblio/internal/flagx"
	"github.com/dmitrijs2005/biblio/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Zero values
// leave the corresponding Config field untouched.
type JsonConfig struct {
	APIBaseURL          string          `json:"api_base_url"`
	StorePath           string          `json:"store_path"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	MetricsAddr         string          `json:"metrics_addr"`
	OTelEndpoint        string          `json:"otel_endpoint"`
	RecommendationLimit int             `json:"recommendation_limit"`
	CatalogPageSize     int             `json:"catalog_page_size"`
}

// parseJson overlays cfg with values from the JSON file named by the
// -c/-config flag in args. No flag means no change.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.StorePath != "" {
		cfg.StorePath = jc.StorePath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.MetricsAddr != "" {
		cfg.MetricsAddr = jc.MetricsAddr
	}
	if jc.OTelEndpoint != "" {
		cfg.OTelEndpoint = jc.OTelEndpoint
	}
	if jc.RecommendationLimit > 0 {
		cfg.RecommendationLimit = jc.RecommendationLimit
	}
	if jc.CatalogPageSize > 0 {
		cfg.CatalogPageSize = jc.CatalogPageSize
	}
	return nil
}
