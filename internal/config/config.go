// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New() to build a Config with defaults.
//   - Load layers a YAML file and ROLEMATCH_* environment variables on top.
//   - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"math"
	"runtime"
	"strings"
	"time"
)

// Supported catalog drivers.
const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DefaultTopN and DefaultAlpha apply when a request omits them.
	DefaultTopN  int     `koanf:"default_top_n"`
	DefaultAlpha float64 `koanf:"default_alpha"`

	// MaxTopN caps the top_n a request may ask for.
	MaxTopN int `koanf:"max_top_n"`

	// MaxBatch caps the number of candidates in POST /recommend/batch.
	MaxBatch int `koanf:"max_batch"`
	// BatchConcurrency bounds the goroutines scoring one batch.
	BatchConcurrency int `koanf:"batch_concurrency"`

	// Catalog source selection.
	CatalogDriver        string `koanf:"catalog_driver"`
	CatalogPath          string `koanf:"catalog_path"`
	CatalogDSN           string `koanf:"catalog_dsn"`
	CatalogTable         string `koanf:"catalog_table"`
	CatalogLoadTimeoutMS int    `koanf:"catalog_load_timeout_ms"`

	// MinDF drops vocabulary terms seen in fewer documents.
	MinDF int `koanf:"min_df"`

	// Redis result cache; disabled when RedisAddr is empty.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	CacheTTLSec   int    `koanf:"cache_ttl_sec"`

	// RateLimitPerMin limits POST requests per client IP; 0 disables.
	RateLimitPerMin int `koanf:"rate_limit_per_min"`
	// CORSAllowOrigins is a comma separated origin list.
	CORSAllowOrigins string `koanf:"cors_allow_origins"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		DefaultTopN:          5,
		DefaultAlpha:         0.6,
		MaxTopN:              50,
		MaxBatch:             100,
		BatchConcurrency:     runtime.NumCPU(),
		CatalogDriver:        DriverCSV,
		CatalogPath:          "data/jobs.csv",
		CatalogTable:         "jobs",
		CatalogLoadTimeoutMS: 30_000,
		MinDF:                1,
		CacheTTLSec:          600,
		RateLimitPerMin:      120,
		CORSAllowOrigins:     "*",
	}
}

// CatalogLoadTimeout returns the catalog load budget as a duration.
func (c *Config) CatalogLoadTimeout() time.Duration {
	return time.Duration(c.CatalogLoadTimeoutMS) * time.Millisecond
}

// CacheTTL returns the cache entry lifetime as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// Origins splits CORSAllowOrigins into trimmed, non-empty entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate checks value ranges and cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DefaultTopN < 1:
		return fmt.Errorf("%w: default_top_n must be positive", ErrInvalidConfig)
	case math.IsNaN(c.DefaultAlpha) || c.DefaultAlpha < 0 || c.DefaultAlpha > 1:
		return fmt.Errorf("%w: default_alpha must be within [0,1]", ErrInvalidConfig)
	case c.MaxTopN < c.DefaultTopN:
		return fmt.Errorf("%w: max_top_n must be >= default_top_n", ErrInvalidConfig)
	case c.MaxBatch < 1:
		return fmt.Errorf("%w: max_batch must be positive", ErrInvalidConfig)
	case c.BatchConcurrency < 1:
		return fmt.Errorf("%w: batch_concurrency must be positive", ErrInvalidConfig)
	case c.MinDF < 1:
		return fmt.Errorf("%w: min_df must be positive", ErrInvalidConfig)
	case c.CacheTTLSec < 0:
		return fmt.Errorf("%w: cache_ttl_sec must not be negative", ErrInvalidConfig)
	case c.RateLimitPerMin < 0:
		return fmt.Errorf("%w: rate_limit_per_min must not be negative", ErrInvalidConfig)
	}

	switch c.CatalogDriver {
	case DriverCSV, DriverSQLite:
		if strings.TrimSpace(c.CatalogPath) == "" {
			return fmt.Errorf("%w: catalog_path is required for driver %q", ErrInvalidConfig, c.CatalogDriver)
		}
	case DriverPostgres:
		if strings.TrimSpace(c.CatalogDSN) == "" {
			return fmt.Errorf("%w: catalog_dsn is required for driver %q", ErrInvalidConfig, c.CatalogDriver)
		}
	default:
		return fmt.Errorf("%w: unknown catalog_driver %q", ErrInvalidConfig, c.CatalogDriver)
	}
	return nil
}
