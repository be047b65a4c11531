// Package llm is the single network boundary of Vidya. It abstracts hosted
// LLM APIs behind a synchronous completion interface, with Gemini as the
// primary provider and Anthropic/OpenAI as drop-in alternates, and wraps
// provider calls in a retry-transient / fail-fast-on-fatal policy.
package llm

import "context"

// Provider is a hosted LLM API capable of one-shot completions.
type Provider interface {
	// Complete sends a single completion request. Implementations must
	// respect context cancellation and deadlines.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Name returns the provider name ("gemini", "anthropic", "openai").
	Name() string
}

// Request describes a single completion request.
type Request struct {
	// Prompt is the rendered instruction string.
	Prompt string

	// SystemPrompt sets a separate system instruction where the provider
	// supports one. Optional.
	SystemPrompt string

	// Model overrides the provider default when non-empty.
	Model string

	// Temperature controls randomness; zero means provider default.
	Temperature float64

	// MaxTokens limits the response length; zero means provider default.
	MaxTokens int
}

// Response holds the result of a completion call.
type Response struct {
	Content string
	Model   string
	Usage   Usage
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Profile carries the credentials and defaults for one provider.
type Profile struct {
	Provider string `json:"provider" mapstructure:"provider"` // gemini, anthropic, openai
	APIKey   string `json:"api_key" mapstructure:"api_key"`
	Model    string `json:"model" mapstructure:"model"`
}
