// Package config provides environment-driven configuration for blastview.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	Port            string
	ListenHost      string
	MetricsPort     string
	CORSOrigins     []string
	AnalysisURL     string
	AnalysisAPIKey  Secret
	AnalysisTimeout time.Duration
	LogLevel        string
	MaxBodyBytes    int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           envOrDefault("PORT", "8080"),
		ListenHost:     envOrDefault("LISTEN_HOST", "127.0.0.1"),
		MetricsPort:    envOrDefault("METRICS_PORT", "9092"),
		AnalysisURL:    strings.TrimRight(envOrDefault("ANALYSIS_URL", "http://127.0.0.1:5000"), "/"),
		AnalysisAPIKey: Secret(envOrDefault("ANALYSIS_API_KEY", "")),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
	}

	timeout, err := time.ParseDuration(envOrDefault("ANALYSIS_TIMEOUT", "0s"))
	if err != nil || timeout < 0 {
		return nil, fmt.Errorf("ANALYSIS_TIMEOUT must be a non-negative duration (e.g. 90s, 0 for none)")
	}
	cfg.AnalysisTimeout = timeout

	maxBody, err := strconv.ParseInt(envOrDefault("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || maxBody < 1024 || maxBody > 64<<20 {
		return nil, fmt.Errorf("MAX_BODY_BYTES must be an integer between 1024 and %d", 64<<20)
	}
	cfg.MaxBodyBytes = maxBody

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:"+cfg.Port)
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listen address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
