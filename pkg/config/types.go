// Package config provides run configuration loading and validation for the
// hl7siu CLI.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Limits bound per-message memory during streaming.
	Limits LimitsConfig `yaml:"limits"`

	// Strict enables fail-fast processing: the first rejected message
	// aborts the run instead of being collected.
	Strict bool `yaml:"strict"`

	// Output controls report rendering.
	Output OutputConfig `yaml:"output"`

	// LogLevel sets the diagnostic log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// Webhooks are optional endpoints notified with the parse report.
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnErrors fires only when structural failures were
	// recorded (default).
	WebhookTriggerOnErrors WebhookTrigger = "on_errors"
	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending parse reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_errors" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// LimitsConfig bounds the size of a single accumulated message.
type LimitsConfig struct {
	// MaxSegments is the maximum number of segment lines per message.
	MaxSegments int `yaml:"max_segments"`

	// MaxMessageSize is the maximum message size in bytes.
	MaxMessageSize int `yaml:"max_message_size"`
}

// OutputConfig controls report output.
type OutputConfig struct {
	// Format is the report format (text or json).
	Format string `yaml:"format"`

	// Verbose includes per-message skip and error detail.
	Verbose bool `yaml:"verbose"`

	// Quiet limits output to the summary.
	Quiet bool `yaml:"quiet"`
}
