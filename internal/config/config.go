// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and VBRANK_ env vars over the defaults.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"time"
)

// Source names one CSV input. Exactly one of URL and Path is set.
type Source struct {
	Label string `koanf:"label"`
	URL   string `koanf:"url"`
	Path  string `koanf:"path"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address used in serve mode, e.g. ":9080".
	Addr string `koanf:"addr"`

	// OutputPath is where the ranking document is written. Empty disables writing.
	OutputPath string `koanf:"output_path"`

	// IndexURL is an HTML page whose .csv links are added to Sources on every run.
	IndexURL string `koanf:"index_url"`

	// Sources lists explicit CSV inputs in processing order.
	Sources []Source `koanf:"sources"`

	// FetchTimeoutMS bounds a single HTTP attempt.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// FetchRetries is the number of retries after the first failed attempt.
	FetchRetries int `koanf:"fetch_retries"`

	// FetchBackoffMS is the base of the exponential retry backoff.
	FetchBackoffMS int `koanf:"fetch_backoff_ms"`

	// FetchConcurrency caps parallel source downloads.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// UserAgent is sent with every HTTP request.
	UserAgent string `koanf:"user_agent"`

	// MaxListLimit caps GET /rankings?limit.
	MaxListLimit int `koanf:"max_list_limit"`

	// FallbackSample ranks the built-in sample when a run yields no records.
	FallbackSample bool `koanf:"fallback_sample"`

	// MetricsNamespace prefixes every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// RunDurationBuckets overrides the run duration histogram buckets in
	// seconds. Empty keeps the Prometheus defaults.
	RunDurationBuckets []float64 `koanf:"run_duration_buckets"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		OutputPath:       "volleyball_ranking.json",
		FetchTimeoutMS:   10_000,
		FetchRetries:     2,
		FetchBackoffMS:   200,
		FetchConcurrency: 4,
		UserAgent:        "vbrank/1.0",
		MaxListLimit:     100,
		FallbackSample:   true,
		MetricsNamespace: "vbrank",
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// FetchBackoff returns FetchBackoffMS as a duration.
func (c *Config) FetchBackoff() time.Duration {
	return time.Duration(c.FetchBackoffMS) * time.Millisecond
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("%w: fetch_concurrency must be at least 1", ErrInvalidConfig)
	}
	if c.FetchRetries < 0 {
		return fmt.Errorf("%w: fetch_retries must not be negative", ErrInvalidConfig)
	}
	if c.MaxListLimit < 1 {
		return fmt.Errorf("%w: max_list_limit must be at least 1", ErrInvalidConfig)
	}
	if c.MetricsNamespace == "" {
		return fmt.Errorf("%w: metrics_namespace must not be empty", ErrInvalidConfig)
	}
	for i := 1; i < len(c.RunDurationBuckets); i++ {
		if c.RunDurationBuckets[i] <= c.RunDurationBuckets[i-1] {
			return fmt.Errorf("%w: run_duration_buckets must be strictly increasing", ErrInvalidConfig)
		}
	}
	for i, s := range c.Sources {
		if (s.URL == "") == (s.Path == "") {
			return fmt.Errorf("%w: sources[%d] needs exactly one of url or path", ErrInvalidConfig, i)
		}
	}
	return nil
}
