package config

import "fmt"

var validProviders = map[string]bool{
	"gemini":    true,
	"anthropic": true,
	"openai":    true,
}

// Validate checks the configuration for startup-blocking problems. A
// missing API key is a fatal configuration error, not a runtime concern.
func (c *Config) Validate() error {
	if !validProviders[c.Provider.Provider] {
		return fmt.Errorf("unknown provider %q (expected gemini, anthropic, or openai)", c.Provider.Provider)
	}
	if c.Provider.APIKey == "" {
		return fmt.Errorf("api key is required: set provider.api_key in the config file or the provider's environment variable")
	}

	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be between 0 and 2, got %g", c.Generation.Temperature)
	}
	if c.Generation.MaxTokens < 0 {
		return fmt.Errorf("generation.max_tokens cannot be negative")
	}

	if c.Session.MaxTurns <= 0 {
		return fmt.Errorf("session.max_turns must be positive, got %d", c.Session.MaxTurns)
	}
	if c.Session.MaxSessions <= 0 {
		return fmt.Errorf("session.max_sessions must be positive, got %d", c.Session.MaxSessions)
	}
	if c.Session.IdleMinutes <= 0 {
		return fmt.Errorf("session.idle_minutes must be positive, got %d", c.Session.IdleMinutes)
	}

	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries cannot be negative")
	}

	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		return fmt.Errorf("web.port must be between 1 and 65535, got %d", c.Web.Port)
	}

	return nil
}
