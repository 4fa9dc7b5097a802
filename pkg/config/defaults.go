package config

import (
	"os"
	"time"
)

// Default limits match the decoder's built-in per-message bounds.
const (
	DefaultMaxSegments    = 500
	DefaultMaxMessageSize = 1024 * 1024
	DefaultFormat         = "text"
	DefaultLogLevel       = "info"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvFormat   = "HL7SIU_FORMAT"
	EnvLogLevel = "HL7SIU_LOG_LEVEL"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxSegments:    DefaultMaxSegments,
			MaxMessageSize: DefaultMaxMessageSize,
		},
		Output: OutputConfig{
			Format: DefaultFormat,
		},
		LogLevel: DefaultLogLevel,
	}
}

// applyEnvironmentOverrides applies environment variable overrides.
func (c *Config) applyEnvironmentOverrides() {
	if format := os.Getenv(EnvFormat); format != "" {
		c.Output.Format = format
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
}
