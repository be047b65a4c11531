// Package chat orchestrates one conversation exchange: sanitize the input,
// detect its language, build the teacher prompt from session history, call
// the LLM, parse the structured answer, and record the turn.
package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/harun/vidya/internal/observability"
	"github.com/harun/vidya/pkg/language"
	"github.com/harun/vidya/pkg/llm"
	"github.com/harun/vidya/pkg/prompt"
	"github.com/harun/vidya/pkg/session"
)

// Completer is the LLM client boundary the engine talks through.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
	Provider() string
}

// Generation holds the model parameters used for every completion.
type Generation struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Options configures an Engine.
type Options struct {
	Detector   *language.Detector
	Builder    *prompt.Builder
	Store      *session.Store
	Client     Completer
	Logger     zerolog.Logger
	Generation Generation
}

// Engine runs the chat pipeline. It is safe for concurrent use.
type Engine struct {
	detector *language.Detector
	builder  *prompt.Builder
	store    *session.Store
	client   Completer
	logger   zerolog.Logger
	gen      Generation

	mu      sync.RWMutex
	lastErr error
}

// Exchange is the result of one question/answer round trip.
type Exchange struct {
	SessionID string            `json:"session_id"`
	Question  string            `json:"question"`
	Language  language.Language `json:"language"`
	Answer    Answer            `json:"answer"`
	// Fallback is true when the language could not be detected and the
	// answer is the canned English apology.
	Fallback bool      `json:"fallback,omitempty"`
	Usage    llm.Usage `json:"usage,omitempty"`
}

// ExchangeError wraps a pipeline failure with the language of the exchange
// so interfaces can localize the user-visible notice.
type ExchangeError struct {
	Language language.Language
	Err      error
}

func (e *ExchangeError) Error() string {
	return e.Err.Error()
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// Status reports connectivity toward the LLM provider.
type Status struct {
	Connected bool   `json:"connected"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
}

// New creates an Engine.
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if opts.Client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if opts.Detector == nil {
		opts.Detector = language.NewDetector()
	}
	if opts.Builder == nil {
		opts.Builder = prompt.NewBuilder()
	}

	return &Engine{
		detector: opts.Detector,
		builder:  opts.Builder,
		store:    opts.Store,
		client:   opts.Client,
		logger:   opts.Logger,
		gen:      opts.Generation,
	}, nil
}

// NewSession creates a fresh session and returns its ID.
func (e *Engine) NewSession() string {
	return e.store.Create()
}

// EndSession removes a session.
func (e *Engine) EndSession(id string) bool {
	return e.store.End(id)
}

// ClearSession drops a session's history while keeping it alive.
func (e *Engine) ClearSession(id string) bool {
	return e.store.Clear(id)
}

// History returns the recorded turns for a session.
func (e *Engine) History(id string) []session.Turn {
	return e.store.History(id)
}

// Greeting returns the localized conversation-start greeting.
func (e *Engine) Greeting(lang language.Language) string {
	return e.builder.Greeting(lang)
}

// Respond runs one exchange. When forced is a supported language the
// detector is bypassed. Undetectable input is answered locally with the
// English apology and no LLM call is made.
func (e *Engine) Respond(ctx context.Context, sessionID, input string, forced language.Language) (*Exchange, error) {
	text, err := Sanitize(input)
	if err != nil {
		return nil, err
	}

	lang := forced
	if !lang.Supported() {
		lang = e.detector.Detect(text)
		observability.RecordDetection(string(lang))
	}

	if lang == language.Unknown {
		return e.respondFallback(sessionID, text)
	}

	history := e.store.History(sessionID)
	req := llm.Request{
		Prompt:       e.builder.Build(lang, text, history),
		SystemPrompt: e.builder.System(lang),
		Model:        e.gen.Model,
		Temperature:  e.gen.Temperature,
		MaxTokens:    e.gen.MaxTokens,
	}

	resp, err := e.client.Complete(ctx, req)
	if err != nil {
		e.setLastErr(err)
		observability.RecordExchange(string(lang), false)
		e.logger.Error().
			Str("session_id", sessionID).
			Str("language", string(lang)).
			Err(err).
			Msg("Exchange failed")
		return nil, &ExchangeError{Language: lang, Err: err}
	}
	e.setLastErr(nil)

	answer := ParseAnswer(resp.Content, lang)
	turn, err := e.store.Append(sessionID, session.Turn{
		Question: text,
		Answer:   answer.Raw,
		Language: lang,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record turn: %w", err)
	}

	observability.RecordExchange(string(lang), true)
	e.logger.Info().
		Str("session_id", sessionID).
		Str("turn_id", turn.ID).
		Str("language", string(lang)).
		Int("input_tokens", resp.Usage.InputTokens).
		Int("output_tokens", resp.Usage.OutputTokens).
		Msg("Exchange completed")

	return &Exchange{
		SessionID: sessionID,
		Question:  text,
		Language:  lang,
		Answer:    answer,
		Usage:     resp.Usage,
	}, nil
}

// respondFallback answers undetectable input locally, in English, with an
// apology naming the supported languages.
func (e *Engine) respondFallback(sessionID, text string) (*Exchange, error) {
	answer := Answer{Raw: prompt.UnsupportedLanguageNotice}

	turn, err := e.store.Append(sessionID, session.Turn{
		Question: text,
		Answer:   answer.Raw,
		Language: language.Unknown,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record turn: %w", err)
	}

	observability.RecordExchange(string(language.Unknown), true)
	e.logger.Info().
		Str("session_id", sessionID).
		Str("turn_id", turn.ID).
		Msg("Undetected language, answered with fallback")

	return &Exchange{
		SessionID: sessionID,
		Question:  text,
		Language:  language.Unknown,
		Answer:    answer,
		Fallback:  true,
	}, nil
}

// FailureNotice localizes the user-visible message for a failed exchange.
func (e *Engine) FailureNotice(err error) string {
	lang := language.English
	var xerr *ExchangeError
	if errors.As(err, &xerr) {
		lang = xerr.Language
	}
	return e.builder.APIErrorNotice(lang)
}

// Ping verifies provider connectivity with a minimal completion call.
func (e *Engine) Ping(ctx context.Context) error {
	_, err := e.client.Complete(ctx, llm.Request{
		Prompt:    "Reply with the single word: pong",
		MaxTokens: 8,
	})
	e.setLastErr(err)
	return err
}

// Status reports the current connectivity state, based on the most recent
// provider call.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return Status{
		Connected: e.lastErr == nil,
		Provider:  e.client.Provider(),
		Model:     e.gen.Model,
	}
}

func (e *Engine) setLastErr(err error) {
	e.mu.Lock()
	e.lastErr = err
	e.mu.Unlock()
}
