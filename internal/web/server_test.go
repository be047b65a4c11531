package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harun/vidya/pkg/chat"
	"github.com/harun/vidya/pkg/language"
)

// stubChat is a canned engine for handler tests.
type stubChat struct {
	sessions   int
	ended      []string
	respondErr error
}

func (s *stubChat) NewSession() string {
	s.sessions++
	return "session-1"
}

func (s *stubChat) EndSession(id string) bool {
	s.ended = append(s.ended, id)
	return true
}

func (s *stubChat) Respond(ctx context.Context, sessionID, input string, forced language.Language) (*chat.Exchange, error) {
	if s.respondErr != nil {
		return nil, s.respondErr
	}
	lang := forced
	if !lang.Supported() {
		lang = language.English
	}
	return &chat.Exchange{
		SessionID: sessionID,
		Question:  input,
		Language:  lang,
		Answer:    chat.Answer{Raw: "an answer"},
	}, nil
}

func (s *stubChat) Greeting(lang language.Language) string { return "hello there" }
func (s *stubChat) FailureNotice(err error) string         { return "something went wrong" }
func (s *stubChat) Status() chat.Status {
	return chat.Status{Connected: true, Provider: "stub", Model: "stub-model"}
}

func newTestServer(t *testing.T, engine Chat, rateLimit int) *Server {
	t.Helper()
	srv, err := NewServer(Options{RateLimitPerMinute: rateLimit}, engine, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { srv.rateLimiter.Stop() })
	return srv
}

func TestNewServer(t *testing.T) {
	t.Run("engine required", func(t *testing.T) {
		_, err := NewServer(Options{}, nil, zerolog.Nop())
		assert.Error(t, err)
	})

	t.Run("defaults applied", func(t *testing.T) {
		srv := newTestServer(t, &stubChat{}, 0)
		assert.Equal(t, "0.0.0.0", srv.options.Host)
		assert.Equal(t, 8080, srv.options.Port)
		assert.Equal(t, 60, srv.options.RateLimitPerMinute)
		assert.Equal(t, 2*time.Minute, srv.options.ExchangeTimeout)
	})
}

func TestHandleIndex(t *testing.T) {
	srv := newTestServer(t, &stubChat{}, 0)

	t.Run("serves the chat page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.handleIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "Vidya")
	})

	t.Run("unknown path is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.handleIndex(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, &stubChat{}, 0)

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["connected"])
}

func TestHandleStatus(t *testing.T) {
	srv := newTestServer(t, &stubChat{}, 0)

	rec := httptest.NewRecorder()
	srv.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	var status chat.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Connected)
	assert.Equal(t, "stub", status.Provider)
}

func dialWebsocket(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(srv.handleWebsocket))
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) outboundMessage {
	t.Helper()
	var msg outboundMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebsocketExchange(t *testing.T) {
	engine := &stubChat{}
	srv := newTestServer(t, engine, 10)
	conn := dialWebsocket(t, srv)

	// Connect sequence: greeting, then status.
	greeting := readMessage(t, conn)
	assert.Equal(t, "greeting", greeting.Type)
	assert.Equal(t, "hello there", greeting.Text)

	status := readMessage(t, conn)
	assert.Equal(t, "status", status.Type)
	require.NotNil(t, status.Status)
	assert.True(t, status.Status.Connected)

	require.NoError(t, conn.WriteJSON(inboundMessage{Type: "chat", Text: "What is gravity?"}))

	answer := readMessage(t, conn)
	assert.Equal(t, "answer", answer.Type)
	require.NotNil(t, answer.Exchange)
	assert.Equal(t, "an answer", answer.Exchange.Answer.Raw)
	assert.Equal(t, language.English, answer.Exchange.Language)
}

func TestWebsocketForcedLanguage(t *testing.T) {
	srv := newTestServer(t, &stubChat{}, 10)
	conn := dialWebsocket(t, srv)

	readMessage(t, conn) // greeting
	readMessage(t, conn) // status

	require.NoError(t, conn.WriteJSON(inboundMessage{Type: "chat", Text: "hello", Lang: "te"}))

	answer := readMessage(t, conn)
	require.NotNil(t, answer.Exchange)
	assert.Equal(t, language.Telugu, answer.Exchange.Language)
}

func TestWebsocketBadLanguage(t *testing.T) {
	srv := newTestServer(t, &stubChat{}, 10)
	conn := dialWebsocket(t, srv)

	readMessage(t, conn)
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(inboundMessage{Type: "chat", Text: "hello", Lang: "fr"}))

	msg := readMessage(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Text, "unsupported language code")
}

func TestWebsocketEmptyInput(t *testing.T) {
	srv := newTestServer(t, &stubChat{respondErr: chat.ErrEmptyInput}, 10)
	conn := dialWebsocket(t, srv)

	readMessage(t, conn)
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(inboundMessage{Type: "chat", Text: "  "}))

	msg := readMessage(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Text, "enter a question")
}

func TestWebsocketExchangeFailure(t *testing.T) {
	srv := newTestServer(t, &stubChat{respondErr: errors.New("boom")}, 10)
	conn := dialWebsocket(t, srv)

	readMessage(t, conn)
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(inboundMessage{Type: "chat", Text: "q"}))

	// A failed exchange sends the localized notice plus a status update.
	errMsg := readMessage(t, conn)
	assert.Equal(t, "error", errMsg.Type)
	assert.Equal(t, "something went wrong", errMsg.Text)

	status := readMessage(t, conn)
	assert.Equal(t, "status", status.Type)
}

func TestWebsocketUnknownMessageType(t *testing.T) {
	srv := newTestServer(t, &stubChat{}, 10)
	conn := dialWebsocket(t, srv)

	readMessage(t, conn)
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(inboundMessage{Type: "ping"}))

	msg := readMessage(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Text, "unknown message type")
}

func TestWebsocketRateLimit(t *testing.T) {
	srv := newTestServer(t, &stubChat{}, 1)
	conn := dialWebsocket(t, srv)

	readMessage(t, conn)
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(inboundMessage{Type: "chat", Text: "first"}))
	assert.Equal(t, "answer", readMessage(t, conn).Type)

	require.NoError(t, conn.WriteJSON(inboundMessage{Type: "chat", Text: "second"}))
	limited := readMessage(t, conn)
	assert.Equal(t, "error", limited.Type)
	assert.Greater(t, limited.RetryAfter, 0)
}

func TestWebsocketSessionLifecycle(t *testing.T) {
	engine := &stubChat{}
	srv := newTestServer(t, engine, 10)
	conn := dialWebsocket(t, srv)

	readMessage(t, conn)
	readMessage(t, conn)
	assert.Equal(t, 1, engine.sessions)

	conn.Close()

	assert.Eventually(t, func() bool {
		return len(engine.ended) == 1 && engine.ended[0] == "session-1"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", clientIP(r))
}
