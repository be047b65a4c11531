// Package session keeps per-conversation history in memory.
//
// State is process-lifetime only: sessions are created on first use, bounded
// in length by FIFO truncation, expired after a period of inactivity, and
// destroyed on shutdown. There is no persistence layer.
package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"

	"github.com/harun/vidya/internal/observability"
	"github.com/harun/vidya/pkg/language"
)

const (
	DefaultMaxTurns    = 10
	DefaultMaxSessions = 100
	DefaultIdleTimeout = 30 * time.Minute
)

// Turn is a single question/answer exchange, immutable once recorded.
type Turn struct {
	ID        string            `json:"id"`
	Question  string            `json:"question"`
	Answer    string            `json:"answer"`
	Language  language.Language `json:"language"`
	Timestamp time.Time         `json:"timestamp"`
}

// Info summarizes a session for listing and stats.
type Info struct {
	ID           string              `json:"id"`
	CreatedAt    time.Time           `json:"created_at"`
	LastActivity time.Time           `json:"last_activity"`
	TurnCount    int                 `json:"turn_count"`
	Languages    []language.Language `json:"languages"`
}

// Stats aggregates counters across all live sessions.
type Stats struct {
	Sessions  int                 `json:"sessions"`
	Turns     int                 `json:"turns"`
	Languages []language.Language `json:"languages"`
}

type state struct {
	id           string
	createdAt    time.Time
	lastActivity time.Time
	turns        []Turn
}

// Config holds store limits. Zero values fall back to the defaults.
type Config struct {
	MaxTurns    int
	MaxSessions int
	IdleTimeout time.Duration
}

// Store is an in-memory session store keyed by opaque session ID.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*state
	maxTurns    int
	maxSessions int
	idleTimeout time.Duration
}

// NewStore creates a session store with the given limits.
func NewStore(cfg Config) *Store {
	observability.EnsureRegistered()

	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}

	s := &Store{
		sessions:    make(map[string]*state),
		maxTurns:    cfg.MaxTurns,
		maxSessions: cfg.MaxSessions,
		idleTimeout: cfg.IdleTimeout,
	}

	log.Info().
		Int("max_turns", s.maxTurns).
		Int("max_sessions", s.maxSessions).
		Dur("idle_timeout", s.idleTimeout).
		Msg("Session store initialized")

	return s
}

// MaxTurns returns the per-session history cap.
func (s *Store) MaxTurns() int {
	return s.maxTurns
}

// Create registers a new session and returns its ID.
func (s *Store) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.createLocked(id)
	observability.SetActiveSessions(len(s.sessions))

	log.Debug().Str("session_id", id).Msg("Session created")
	return id
}

func (s *Store) createLocked(id string) *state {
	if len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}

	now := time.Now()
	st := &state{id: id, createdAt: now, lastActivity: now}
	s.sessions[id] = st
	return st
}

// Append records a turn for the given session, creating the session on
// first use. When the history exceeds the cap the oldest turn is dropped.
func (s *Store) Append(id string, turn Turn) (Turn, error) {
	if id == "" {
		return Turn{}, fmt.Errorf("session id cannot be empty")
	}
	if turn.Question == "" {
		return Turn{}, fmt.Errorf("turn question cannot be empty")
	}
	if turn.ID == "" {
		nid, err := gonanoid.New()
		if err != nil {
			return Turn{}, fmt.Errorf("failed to generate turn id: %w", err)
		}
		turn.ID = nid
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		st = s.createLocked(id)
		observability.SetActiveSessions(len(s.sessions))
	}

	st.turns = append(st.turns, turn)
	if len(st.turns) > s.maxTurns {
		st.turns = st.turns[len(st.turns)-s.maxTurns:]
	}
	st.lastActivity = time.Now()

	log.Debug().
		Str("session_id", id).
		Str("turn_id", turn.ID).
		Str("language", string(turn.Language)).
		Int("turns", len(st.turns)).
		Msg("Turn appended")

	return turn, nil
}

// History returns the ordered turns for a session. An unknown ID yields an
// empty slice, never an error.
func (s *Store) History(id string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[id]
	if !ok {
		return nil
	}

	turns := make([]Turn, len(st.turns))
	copy(turns, st.turns)
	return turns
}

// Context returns up to n of the most recent turns, oldest first, for
// inclusion in a prompt.
func (s *Store) Context(id string, n int) []Turn {
	turns := s.History(id)
	if n <= 0 || len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}

// Touch refreshes a session's activity timestamp. Unknown IDs are ignored.
func (s *Store) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.sessions[id]; ok {
		st.lastActivity = time.Now()
	}
}

// Clear removes all turns from a session while keeping it alive.
func (s *Store) Clear(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return false
	}

	st.turns = nil
	st.lastActivity = time.Now()
	return true
}

// End removes a session entirely.
func (s *Store) End(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}

	delete(s.sessions, id)
	observability.SetActiveSessions(len(s.sessions))

	log.Debug().Str("session_id", id).Msg("Session ended")
	return true
}

// List returns summaries of all live sessions, oldest first.
func (s *Store) List() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]Info, 0, len(s.sessions))
	for _, st := range s.sessions {
		infos = append(infos, s.infoLocked(st))
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Stats returns aggregate counters across all live sessions.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Sessions: len(s.sessions)}
	seen := make(map[language.Language]bool)
	for _, st := range s.sessions {
		stats.Turns += len(st.turns)
		for _, t := range st.turns {
			if !seen[t.Language] {
				seen[t.Language] = true
				stats.Languages = append(stats.Languages, t.Language)
			}
		}
	}
	return stats
}

// Sweep removes sessions idle longer than the configured timeout and
// returns the number removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.idleTimeout)
	removed := 0
	for id, st := range s.sessions {
		if st.lastActivity.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		observability.SetActiveSessions(len(s.sessions))
		log.Info().Int("removed", removed).Msg("Expired sessions swept")
	}
	return removed
}

func (s *Store) infoLocked(st *state) Info {
	info := Info{
		ID:           st.id,
		CreatedAt:    st.createdAt,
		LastActivity: st.lastActivity,
		TurnCount:    len(st.turns),
	}
	seen := make(map[language.Language]bool)
	for _, t := range st.turns {
		if !seen[t.Language] {
			seen[t.Language] = true
			info.Languages = append(info.Languages, t.Language)
		}
	}
	return info
}

func (s *Store) evictOldestLocked() {
	var oldest *state
	for _, st := range s.sessions {
		if oldest == nil || st.createdAt.Before(oldest.createdAt) {
			oldest = st
		}
	}
	if oldest == nil {
		return
	}

	delete(s.sessions, oldest.id)
	log.Info().Str("session_id", oldest.id).Msg("Oldest session evicted at capacity")
}
