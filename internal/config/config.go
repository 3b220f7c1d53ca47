// Package config provides configuration loading and validation for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultListenAddr   = ":8080"
	DefaultCacheTTL     = 12 * time.Hour
	DefaultStageTimeout = 60 * time.Second
)

// Config holds the service configuration, read from the environment. A
// .env file, when present, is loaded into the environment before this runs.
type Config struct {
	// ListenAddr is the HTTP listen address (LISTEN_ADDR)
	ListenAddr string

	// GeminiAPIKey authenticates against the model provider (GEMINI_API_KEY)
	GeminiAPIKey string

	// AWSRegion overrides the SDK's resolved region when set (AWS_REGION)
	AWSRegion string

	// ReportsBucket is the S3 bucket for rendered reports (REPORTS_BUCKET)
	ReportsBucket string

	// CacheTable is the DynamoDB table for extracted-text caching
	// (RESUME_CACHE_TABLE). Empty disables the persistent cache.
	CacheTable string

	// CacheTTL is how long cached extractions stay valid (CACHE_TTL_HOURS)
	CacheTTL time.Duration

	// StageTimeout bounds each external-service pipeline stage
	// (STAGE_TIMEOUT_SECONDS)
	StageTimeout time.Duration

	// StrictRedaction makes redaction failures fatal instead of passing
	// unredacted text through (REDACTION_STRICT)
	StrictRedaction bool
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:      envOr("LISTEN_ADDR", DefaultListenAddr),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		AWSRegion:       os.Getenv("AWS_REGION"),
		ReportsBucket:   os.Getenv("REPORTS_BUCKET"),
		CacheTable:      os.Getenv("RESUME_CACHE_TABLE"),
		CacheTTL:        DefaultCacheTTL,
		StageTimeout:    DefaultStageTimeout,
		StrictRedaction: boolEnv("REDACTION_STRICT"),
	}

	if raw := os.Getenv("CACHE_TTL_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("config error: 'CACHE_TTL_HOURS' must be a positive integer, got %q", raw)
		}
		cfg.CacheTTL = time.Duration(hours) * time.Hour
	}

	if raw := os.Getenv("STAGE_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("config error: 'STAGE_TIMEOUT_SECONDS' must be a positive integer, got %q", raw)
		}
		cfg.StageTimeout = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

// Validate checks that configuration required for serving is present.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: 'GEMINI_API_KEY' is required")
	}
	if c.ReportsBucket == "" {
		return fmt.Errorf("config error: 'REPORTS_BUCKET' is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
