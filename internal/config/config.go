// Package config provides configuration loading and validation for the
// server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Defaults
const (
	DefaultPort              = 8080
	DefaultInterviewTimezone = "UTC"
	DefaultWebhookWorkers    = 2
	DefaultWebhookQueueSize  = 100
)

// Config represents the server configuration. Values come from a JSON file
// and from the environment; environment values win.
type Config struct {
	DatabaseURL       string `json:"database_url,omitempty"`       // PostgreSQL connection URL
	Port              int    `json:"port,omitempty"`               // HTTP listen port
	InterviewTimezone string `json:"interview_timezone,omitempty"` // IANA zone for slot dates and lunch

	// Webhooks
	DecisionWebhookURL  string `json:"decision_webhook_url,omitempty"`
	ScreeningWebhookURL string `json:"screening_webhook_url,omitempty"`
	WebhookWorkers      int    `json:"webhook_workers,omitempty"`
	WebhookQueueSize    int    `json:"webhook_queue_size,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables. Unset variables
// leave the field zero.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		InterviewTimezone:   os.Getenv("INTERVIEW_TIMEZONE"),
		DecisionWebhookURL:  os.Getenv("DECISION_WEBHOOK_URL"),
		ScreeningWebhookURL: os.Getenv("SCREENING_WEBHOOK_URL"),
	}

	ints := []struct {
		key  string
		dest *int
	}{
		{"PORT", &cfg.Port},
		{"WEBHOOK_WORKERS", &cfg.WebhookWorkers},
		{"WEBHOOK_QUEUE_SIZE", &cfg.WebhookQueueSize},
	}
	for _, v := range ints {
		raw := os.Getenv(v.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %v", v.key, err)
		}
		*v.dest = n
	}

	return cfg, nil
}

// Load builds the effective configuration: environment over the optional
// JSON file at path, then built-in defaults. The result is validated.
func Load(path string) (*Config, error) {
	env, err := FromEnv()
	if err != nil {
		return nil, err
	}

	file := Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		file = *loaded
	}

	cfg := env.MergeWithDefaults(file)
	cfg = cfg.MergeWithDefaults(Config{
		Port:              DefaultPort,
		InterviewTimezone: DefaultInterviewTimezone,
		WebhookWorkers:    DefaultWebhookWorkers,
		WebhookQueueSize:  DefaultWebhookQueueSize,
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// DatabaseURL is not required here since the in-memory mode runs without it.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.WebhookWorkers < 0 {
		return fmt.Errorf("config error: 'webhook_workers' must be non-negative")
	}
	if c.WebhookQueueSize < 0 {
		return fmt.Errorf("config error: 'webhook_queue_size' must be non-negative")
	}

	if c.InterviewTimezone != "" {
		if _, err := time.LoadLocation(c.InterviewTimezone); err != nil {
			return fmt.Errorf("config error: unknown interview_timezone %q", c.InterviewTimezone)
		}
	}

	for name, raw := range map[string]string{
		"decision_webhook_url":  c.DecisionWebhookURL,
		"screening_webhook_url": c.ScreeningWebhookURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config error: '%s' must be an http(s) URL", name)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.InterviewTimezone == "" {
		result.InterviewTimezone = defaults.InterviewTimezone
	}
	if result.DecisionWebhookURL == "" {
		result.DecisionWebhookURL = defaults.DecisionWebhookURL
	}
	if result.ScreeningWebhookURL == "" {
		result.ScreeningWebhookURL = defaults.ScreeningWebhookURL
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.WebhookWorkers == 0 {
		result.WebhookWorkers = defaults.WebhookWorkers
	}
	if result.WebhookQueueSize == 0 {
		result.WebhookQueueSize = defaults.WebhookQueueSize
	}

	return result
}

// Location returns the interview time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	if c.InterviewTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.InterviewTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Webhooks maps event kinds to their configured endpoints. Kinds without a
// URL are omitted.
func (c *Config) Webhooks(decisionKind, screeningKind string) map[string]string {
	hooks := map[string]string{}
	if c.DecisionWebhookURL != "" {
		hooks[decisionKind] = c.DecisionWebhookURL
	}
	if c.ScreeningWebhookURL != "" {
		hooks[screeningKind] = c.ScreeningWebhookURL
	}
	return hooks
}
