// Package config loads runtime configuration for the biblio CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c, -config or --config (see parseJson).
//  3. Environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the remote library service
//	-s string   path to the local SQLite store
//	-t int      per-request timeout in seconds (0 disables)
//	-m string   listen address for the Prometheus endpoint (empty disables)
//
// Environment
//
//	BIBLIO_API_BASE_URL, BIBLIO_STORE_PATH, BIBLIO_REQUEST_TIMEOUT ("30s"),
//	BIBLIO_METRICS_ADDR, BIBLIO_OTEL_ENDPOINT, BIBLIO_RECOMMENDATION_LIMIT,
//	BIBLIO_CATALOG_PAGE_SIZE
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "store_path": "biblio.db",
//	  "request_timeout": "30s",
//	  "metrics_addr": "127.0.0.1:9464",
//	  "otel_endpoint": "http://localhost:4318",
//	  "recommendation_limit": 10,
//	  "catalog_page_size": 12
//	}
package config
