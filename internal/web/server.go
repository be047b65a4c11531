// Package web serves the browser UI: a single embedded page, a websocket
// endpoint carrying chat exchanges, a health endpoint for the connectivity
// indicator, and the metrics endpoint. Each websocket connection owns one
// session, created on connect and ended on disconnect.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/harun/vidya/internal/observability"
	"github.com/harun/vidya/pkg/chat"
	"github.com/harun/vidya/pkg/language"
)

//go:embed static
var staticFiles embed.FS

// Chat is the engine boundary the server talks through.
type Chat interface {
	NewSession() string
	EndSession(id string) bool
	Respond(ctx context.Context, sessionID, input string, forced language.Language) (*chat.Exchange, error)
	Greeting(lang language.Language) string
	FailureNotice(err error) string
	Status() chat.Status
}

// Options holds server configuration.
type Options struct {
	Host               string
	Port               int
	RateLimitPerMinute int
	// ExchangeTimeout bounds one LLM round trip including retries.
	ExchangeTimeout time.Duration
}

// Server is the web UI HTTP server.
type Server struct {
	options     Options
	engine      Chat
	server      *http.Server
	upgrader    websocket.Upgrader
	rateLimiter *RateLimiter
	logger      zerolog.Logger
	startTime   time.Time

	clientsMu sync.Mutex
	clients   int
}

// inboundMessage is what a web UI client sends.
type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Lang string `json:"lang,omitempty"`
}

// outboundMessage is what the server sends to a client.
type outboundMessage struct {
	Type       string         `json:"type"`
	Text       string         `json:"text,omitempty"`
	Exchange   *chat.Exchange `json:"exchange,omitempty"`
	Status     *chat.Status   `json:"status,omitempty"`
	RetryAfter int            `json:"retry_after,omitempty"`
}

// NewServer creates a web UI server.
func NewServer(options Options, engine Chat, logger zerolog.Logger) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("chat engine is required")
	}
	if options.Port == 0 {
		options.Port = 8080
	}
	if options.Host == "" {
		options.Host = "0.0.0.0"
	}
	if options.RateLimitPerMinute == 0 {
		options.RateLimitPerMinute = 60
	}
	if options.ExchangeTimeout == 0 {
		options.ExchangeTimeout = 2 * time.Minute
	}

	return &Server{
		options:     options,
		engine:      engine,
		rateLimiter: NewRateLimiter(options.RateLimitPerMinute),
		logger:      logger,
		startTime:   time.Now(),
		upgrader: websocket.Upgrader{
			// The UI is served same-origin; reverse proxies may rewrite Host.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}, nil
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWebsocket)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.Handle("/metrics", observability.MetricsHandler())

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.options.Host, s.options.Port),
		Handler: mux,
	}

	s.logger.Info().
		Str("host", s.options.Host).
		Int("port", s.options.Port).
		Msg("Starting web server")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start web server: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.rateLimiter.Stop()
	if s.server == nil {
		return nil
	}
	s.logger.Info().Msg("Stopping web server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.engine.Status()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"connected": status.Connected,
		"uptime":    time.Since(s.startTime).String(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.engine.Status()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}

	ip := clientIP(r)
	sessionID := s.engine.NewSession()
	s.trackClient(+1)

	s.logger.Info().
		Str("session_id", sessionID).
		Str("ip", ip).
		Msg("Web client connected")

	defer func() {
		conn.Close()
		s.engine.EndSession(sessionID)
		s.trackClient(-1)
		s.logger.Info().Str("session_id", sessionID).Msg("Web client disconnected")
	}()

	status := s.engine.Status()
	s.send(conn, outboundMessage{Type: "greeting", Text: s.engine.Greeting(language.English)})
	s.send(conn, outboundMessage{Type: "status", Status: &status})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Websocket read failed")
			}
			return
		}

		if msg.Type != "chat" {
			s.send(conn, outboundMessage{Type: "error", Text: fmt.Sprintf("unknown message type: %s", msg.Type)})
			continue
		}

		if !s.rateLimiter.Allow(ip) {
			s.send(conn, outboundMessage{
				Type:       "error",
				Text:       "Too many messages, please slow down.",
				RetryAfter: s.rateLimiter.RetryAfter(ip),
			})
			continue
		}

		s.handleChat(conn, sessionID, msg)
	}
}

func (s *Server) handleChat(conn *websocket.Conn, sessionID string, msg inboundMessage) {
	forced := language.Unknown
	if msg.Lang != "" {
		lang, err := language.Parse(msg.Lang)
		if err != nil {
			s.send(conn, outboundMessage{Type: "error", Text: err.Error()})
			return
		}
		forced = lang
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.options.ExchangeTimeout)
	defer cancel()

	exchange, err := s.engine.Respond(ctx, sessionID, msg.Text, forced)
	if err != nil {
		if err == chat.ErrEmptyInput {
			s.send(conn, outboundMessage{Type: "error", Text: "Please enter a question."})
			return
		}
		s.send(conn, outboundMessage{Type: "error", Text: s.engine.FailureNotice(err)})
		status := s.engine.Status()
		s.send(conn, outboundMessage{Type: "status", Status: &status})
		return
	}

	s.send(conn, outboundMessage{Type: "answer", Exchange: exchange})
}

func (s *Server) send(conn *websocket.Conn, msg outboundMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Warn().Err(err).Msg("Websocket write failed")
	}
}

func (s *Server) trackClient(delta int) {
	s.clientsMu.Lock()
	s.clients += delta
	observability.SetWebsocketClients(s.clients)
	s.clientsMu.Unlock()
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
