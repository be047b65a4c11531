package llm

import (
	"context"
	"fmt"
)

// NewProvider creates an LLM provider from a profile.
func NewProvider(ctx context.Context, profile Profile) (Provider, error) {
	if profile.APIKey == "" {
		return nil, &FatalError{Err: fmt.Errorf("api key is required for provider %q", profile.Provider)}
	}

	switch profile.Provider {
	case "gemini", "":
		return NewGeminiProvider(ctx, profile.APIKey, profile.Model)
	case "anthropic":
		return NewAnthropicProvider(profile.APIKey, profile.Model), nil
	case "openai":
		return NewOpenAIProvider(profile.APIKey, profile.Model), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", profile.Provider)
	}
}
