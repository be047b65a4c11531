package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harun/vidya/pkg/language"
	"github.com/harun/vidya/pkg/llm"
	"github.com/harun/vidya/pkg/prompt"
	"github.com/harun/vidya/pkg/session"
)

// fakeCompleter records requests and replays a scripted response.
type fakeCompleter struct {
	calls    int
	lastReq  llm.Request
	response *llm.Response
	err      error
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	if f.response != nil {
		return f.response, nil
	}
	return &llm.Response{Content: "ok", Model: "test-model"}, nil
}

func (f *fakeCompleter) Provider() string { return "fake" }

func newTestEngine(t *testing.T, completer Completer) *Engine {
	t.Helper()
	engine, err := New(Options{
		Store:  session.NewStore(session.Config{}),
		Client: completer,
		Logger: zerolog.Nop(),
		Generation: Generation{
			Model:       "test-model",
			Temperature: 0.7,
			MaxTokens:   1024,
		},
	})
	require.NoError(t, err)
	return engine
}

func TestNewEngine(t *testing.T) {
	t.Run("store required", func(t *testing.T) {
		_, err := New(Options{Client: &fakeCompleter{}})
		assert.Error(t, err)
	})

	t.Run("client required", func(t *testing.T) {
		_, err := New(Options{Store: session.NewStore(session.Config{})})
		assert.Error(t, err)
	})
}

func TestRespondEnglish(t *testing.T) {
	completer := &fakeCompleter{
		response: &llm.Response{
			Content: "1. Definition: Gravity attracts masses.\n2. Examples:\n- Falling apples.\n- Ocean tides.\n3. Application: It keeps satellites in orbit.",
			Model:   "test-model",
			Usage:   llm.Usage{InputTokens: 20, OutputTokens: 40},
		},
	}
	engine := newTestEngine(t, completer)
	sessionID := engine.NewSession()

	exchange, err := engine.Respond(context.Background(), sessionID, "What is gravity?", language.Unknown)
	require.NoError(t, err)

	assert.Equal(t, language.English, exchange.Language)
	assert.False(t, exchange.Fallback)
	assert.Equal(t, "Gravity attracts masses.", exchange.Answer.Definition)
	assert.Len(t, exchange.Answer.Examples, 2)
	assert.Equal(t, llm.Usage{InputTokens: 20, OutputTokens: 40}, exchange.Usage)

	// The request carries the generation parameters and the teacher prompt.
	assert.Equal(t, "test-model", completer.lastReq.Model)
	assert.InDelta(t, 0.7, completer.lastReq.Temperature, 1e-9)
	assert.Equal(t, 1024, completer.lastReq.MaxTokens)
	assert.Contains(t, completer.lastReq.Prompt, "User Question (English): What is gravity?")
	assert.Contains(t, completer.lastReq.SystemPrompt, "teacher")

	// The turn is recorded.
	history := engine.History(sessionID)
	require.Len(t, history, 1)
	assert.Equal(t, "What is gravity?", history[0].Question)
	assert.Equal(t, language.English, history[0].Language)
}

func TestRespondDetectsHindi(t *testing.T) {
	completer := &fakeCompleter{}
	engine := newTestEngine(t, completer)
	sessionID := engine.NewSession()

	exchange, err := engine.Respond(context.Background(), sessionID, "गुरुत्वाकर्षण क्या है?", language.Unknown)
	require.NoError(t, err)

	assert.Equal(t, language.Hindi, exchange.Language)
	assert.Contains(t, completer.lastReq.Prompt, "User Question (Hindi)")
	assert.Contains(t, completer.lastReq.SystemPrompt, "शिक्षक")
}

func TestRespondForcedLanguageSkipsDetection(t *testing.T) {
	completer := &fakeCompleter{}
	engine := newTestEngine(t, completer)
	sessionID := engine.NewSession()

	// English text, Telugu forced: the response language follows the flag.
	exchange, err := engine.Respond(context.Background(), sessionID, "What is gravity?", language.Telugu)
	require.NoError(t, err)

	assert.Equal(t, language.Telugu, exchange.Language)
	assert.Contains(t, completer.lastReq.Prompt, "User Question (Telugu)")
}

func TestRespondUnknownLanguageFallback(t *testing.T) {
	completer := &fakeCompleter{}
	engine := newTestEngine(t, completer)
	sessionID := engine.NewSession()

	exchange, err := engine.Respond(context.Background(), sessionID, "12345 ???", language.Unknown)
	require.NoError(t, err)

	assert.True(t, exchange.Fallback)
	assert.Equal(t, language.Unknown, exchange.Language)
	assert.Equal(t, prompt.UnsupportedLanguageNotice, exchange.Answer.Raw)
	// No LLM call is made for undetectable input.
	assert.Zero(t, completer.calls)

	// The fallback turn is still recorded.
	history := engine.History(sessionID)
	require.Len(t, history, 1)
	assert.Equal(t, language.Unknown, history[0].Language)
}

func TestRespondEmptyInput(t *testing.T) {
	engine := newTestEngine(t, &fakeCompleter{})

	_, err := engine.Respond(context.Background(), engine.NewSession(), "   ", language.Unknown)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestRespondClientError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("boom")}
	engine := newTestEngine(t, completer)
	sessionID := engine.NewSession()

	_, err := engine.Respond(context.Background(), sessionID, "What is gravity?", language.Unknown)
	require.Error(t, err)

	var xerr *ExchangeError
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, language.English, xerr.Language)

	// Failed exchanges are not recorded.
	assert.Empty(t, engine.History(sessionID))

	// Status flips to disconnected until the next successful call.
	assert.False(t, engine.Status().Connected)

	completer.err = nil
	_, err = engine.Respond(context.Background(), sessionID, "What is gravity?", language.Unknown)
	require.NoError(t, err)
	assert.True(t, engine.Status().Connected)
}

func TestRespondIncludesHistory(t *testing.T) {
	completer := &fakeCompleter{}
	engine := newTestEngine(t, completer)
	sessionID := engine.NewSession()

	_, err := engine.Respond(context.Background(), sessionID, "What is gravity?", language.English)
	require.NoError(t, err)

	_, err = engine.Respond(context.Background(), sessionID, "Who discovered it?", language.English)
	require.NoError(t, err)

	assert.Contains(t, completer.lastReq.Prompt, "Previous conversation context:")
	assert.Contains(t, completer.lastReq.Prompt, "1. Q: What is gravity?")
}

func TestFailureNotice(t *testing.T) {
	engine := newTestEngine(t, &fakeCompleter{})

	t.Run("localized via exchange error", func(t *testing.T) {
		err := &ExchangeError{Language: language.Hindi, Err: errors.New("boom")}
		assert.Contains(t, engine.FailureNotice(err), "त्रुटि")
	})

	t.Run("plain error falls back to english", func(t *testing.T) {
		notice := engine.FailureNotice(errors.New("boom"))
		assert.Contains(t, notice, "error processing your request")
	})
}

func TestGreeting(t *testing.T) {
	engine := newTestEngine(t, &fakeCompleter{})

	assert.Contains(t, engine.Greeting(language.Telugu), "నమస్కారం")
	assert.Contains(t, engine.Greeting(language.Unknown), "Hello")
}

func TestPing(t *testing.T) {
	completer := &fakeCompleter{}
	engine := newTestEngine(t, completer)

	require.NoError(t, engine.Ping(context.Background()))
	assert.True(t, engine.Status().Connected)
	assert.Equal(t, 1, completer.calls)

	completer.err = errors.New("unreachable")
	assert.Error(t, engine.Ping(context.Background()))
	assert.False(t, engine.Status().Connected)
}

func TestSessionLifecycle(t *testing.T) {
	engine := newTestEngine(t, &fakeCompleter{})

	id := engine.NewSession()
	_, err := engine.Respond(context.Background(), id, "What is gravity?", language.English)
	require.NoError(t, err)
	require.Len(t, engine.History(id), 1)

	assert.True(t, engine.ClearSession(id))
	assert.Empty(t, engine.History(id))

	assert.True(t, engine.EndSession(id))
	assert.False(t, engine.EndSession(id))
}
