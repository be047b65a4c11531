// Package config defines the Vidya configuration and its JSON/env loader.
package config

import (
	"encoding/json"
	"time"

	"github.com/harun/vidya/pkg/llm"
)

// Config is the main Vidya configuration.
type Config struct {
	// Provider selects the LLM backend and its credentials.
	Provider llm.Profile `json:"provider" mapstructure:"provider"`

	// Generation holds model parameters applied to every completion.
	Generation GenerationConfig `json:"generation" mapstructure:"generation"`

	// Session bounds the in-memory conversation store.
	Session SessionConfig `json:"session" mapstructure:"session"`

	// Retry configures the transient-failure retry loop.
	Retry RetryConfig `json:"retry" mapstructure:"retry"`

	// Web configures the web UI server.
	Web WebConfig `json:"web" mapstructure:"web"`

	// Logging configures zerolog output.
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// TemplatePack optionally points at a JSON file overriding the
	// built-in prompt templates.
	TemplatePack string `json:"template_pack" mapstructure:"template_pack"`

	// DataDir is where logs and other runtime files live.
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// GenerationConfig holds model parameters for completions.
type GenerationConfig struct {
	Model       string  `json:"model" mapstructure:"model"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`
}

// SessionConfig bounds the session store.
type SessionConfig struct {
	MaxTurns      int    `json:"max_turns" mapstructure:"max_turns"`
	MaxSessions   int    `json:"max_sessions" mapstructure:"max_sessions"`
	IdleMinutes   int    `json:"idle_minutes" mapstructure:"idle_minutes"`
	SweepSchedule string `json:"sweep_schedule" mapstructure:"sweep_schedule"`
}

// IdleTimeout returns the idle timeout as a duration.
func (s SessionConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleMinutes) * time.Minute
}

// RetryConfig configures the LLM retry loop.
type RetryConfig struct {
	MaxRetries  int `json:"max_retries" mapstructure:"max_retries"`
	BaseDelayMs int `json:"base_delay_ms" mapstructure:"base_delay_ms"`
}

// BaseDelay returns the initial backoff delay as a duration.
func (r RetryConfig) BaseDelay() time.Duration {
	return time.Duration(r.BaseDelayMs) * time.Millisecond
}

// WebConfig configures the web UI server.
type WebConfig struct {
	Host               string `json:"host" mapstructure:"host"`
	Port               int    `json:"port" mapstructure:"port"`
	RateLimitPerMinute int    `json:"rate_limit_per_minute" mapstructure:"rate_limit_per_minute"`
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// DefaultConfig returns a config with default values. The API key has no
// default; it must come from the config file or environment.
func DefaultConfig() *Config {
	return &Config{
		Provider: llm.Profile{
			Provider: "gemini",
		},
		Generation: GenerationConfig{
			Temperature: 0.7,
			MaxTokens:   1024,
		},
		Session: SessionConfig{
			MaxTurns:      10,
			MaxSessions:   100,
			IdleMinutes:   30,
			SweepSchedule: "@every 5m",
		},
		Retry: RetryConfig{
			MaxRetries:  3,
			BaseDelayMs: 1000,
		},
		Web: WebConfig{
			Host:               "0.0.0.0",
			Port:               8080,
			RateLimitPerMinute: 60,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Pretty:    true,
			Redaction: true,
		},
	}
}

// String returns a JSON representation of the config.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
