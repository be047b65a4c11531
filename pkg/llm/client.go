package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/harun/vidya/internal/observability"
)

const (
	// DefaultMaxRetries bounds the retry loop: a request makes at most
	// DefaultMaxRetries+1 provider calls.
	DefaultMaxRetries = 3

	// DefaultBaseDelay is the first backoff delay; it doubles per retry.
	DefaultBaseDelay = 1 * time.Second
)

// ClientConfig holds retry settings for a Client.
type ClientConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	Logger     zerolog.Logger
}

// Client wraps a Provider with retry-with-exponential-backoff on transient
// failures. Fatal errors (bad credentials) are surfaced after a single
// attempt.
type Client struct {
	provider   Provider
	maxRetries int
	baseDelay  time.Duration
	logger     zerolog.Logger
}

// NewClient creates a retrying client around the given provider.
func NewClient(provider Provider, cfg ClientConfig) (*Client, error) {
	observability.EnsureRegistered()

	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max retries cannot be negative")
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}

	return &Client{
		provider:   provider,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
		logger:     cfg.Logger.With().Str("provider", provider.Name()).Logger(),
	}, nil
}

// Provider returns the name of the wrapped provider.
func (c *Client) Provider() string {
	return c.provider.Name()
}

// Complete sends the request, retrying transient failures with exponential
// backoff up to the configured attempt cap.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	delay := c.baseDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			observability.RecordLLMRetry(c.provider.Name())
			c.logger.Warn().
				Int("attempt", attempt+1).
				Dur("backoff", delay).
				Err(lastErr).
				Msg("Retrying LLM call")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		start := time.Now()
		resp, err := c.provider.Complete(ctx, req)
		observability.RecordLLMRequest(c.provider.Name(), time.Since(start))

		if err == nil {
			c.logger.Debug().
				Int("attempt", attempt+1).
				Int("input_tokens", resp.Usage.InputTokens).
				Int("output_tokens", resp.Usage.OutputTokens).
				Msg("LLM call succeeded")
			return resp, nil
		}

		err = Classify(err)
		if IsFatal(err) {
			observability.RecordLLMError(c.provider.Name(), "fatal")
			c.logger.Error().Err(err).Msg("Fatal LLM error, not retrying")
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		observability.RecordLLMError(c.provider.Name(), "transient")
		lastErr = err
	}

	return nil, fmt.Errorf("llm call failed after %d attempts: %w", c.maxRetries+1, lastErr)
}
