package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider returns the queued errors in order, then succeeds.
type scriptedProvider struct {
	calls    int
	failures []error
	response *Response
}

func (p *scriptedProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	p.calls++
	if len(p.failures) > 0 {
		err := p.failures[0]
		p.failures = p.failures[1:]
		return nil, err
	}
	if p.response != nil {
		return p.response, nil
	}
	return &Response{Content: "ok", Model: "test-model"}, nil
}

func (p *scriptedProvider) Name() string { return "scripted" }

func newTestClient(t *testing.T, provider Provider, maxRetries int) *Client {
	t.Helper()
	client, err := NewClient(provider, ClientConfig{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("nil provider rejected", func(t *testing.T) {
		_, err := NewClient(nil, ClientConfig{})
		assert.Error(t, err)
	})

	t.Run("negative retries rejected", func(t *testing.T) {
		_, err := NewClient(&scriptedProvider{}, ClientConfig{MaxRetries: -1})
		assert.Error(t, err)
	})

	t.Run("defaults applied", func(t *testing.T) {
		client, err := NewClient(&scriptedProvider{}, ClientConfig{Logger: zerolog.Nop()})
		require.NoError(t, err)
		assert.Equal(t, DefaultMaxRetries, client.maxRetries)
		assert.Equal(t, DefaultBaseDelay, client.baseDelay)
		assert.Equal(t, "scripted", client.Provider())
	})
}

func TestCompleteSuccessFirstTry(t *testing.T) {
	provider := &scriptedProvider{response: &Response{Content: "gravity pulls things down"}}
	client := newTestClient(t, provider, 3)

	resp, err := client.Complete(context.Background(), Request{Prompt: "What is gravity?"})
	require.NoError(t, err)
	assert.Equal(t, "gravity pulls things down", resp.Content)
	assert.Equal(t, 1, provider.calls)
}

func TestCompleteRetriesTransient(t *testing.T) {
	// Two transient failures, then success: exactly three provider calls.
	provider := &scriptedProvider{
		failures: []error{
			&TransientError{Err: errors.New("rate limit")},
			&TransientError{Err: errors.New("overloaded")},
		},
	}
	client := newTestClient(t, provider, 3)

	resp, err := client.Complete(context.Background(), Request{Prompt: "q"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 3, provider.calls)
}

func TestCompleteFatalNotRetried(t *testing.T) {
	provider := &scriptedProvider{
		failures: []error{errors.New("401 Unauthorized")},
	}
	client := newTestClient(t, provider, 3)

	_, err := client.Complete(context.Background(), Request{Prompt: "q"})
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Equal(t, 1, provider.calls)
}

func TestCompleteExhaustsRetries(t *testing.T) {
	provider := &scriptedProvider{
		failures: []error{
			&TransientError{Err: errors.New("blip 1")},
			&TransientError{Err: errors.New("blip 2")},
			&TransientError{Err: errors.New("blip 3")},
		},
	}
	client := newTestClient(t, provider, 2)

	_, err := client.Complete(context.Background(), Request{Prompt: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.True(t, IsTransient(err))
	assert.Equal(t, 3, provider.calls)
}

func TestCompleteHonorsContextCancellation(t *testing.T) {
	provider := &scriptedProvider{
		failures: []error{&TransientError{Err: errors.New("blip")}},
	}
	client, err := NewClient(provider, ClientConfig{
		MaxRetries: 3,
		BaseDelay:  time.Minute,
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err = client.Complete(ctx, Request{Prompt: "q"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 1, provider.calls)
}
