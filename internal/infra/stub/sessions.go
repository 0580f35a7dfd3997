// File: internal/infra/stub/sessions.go
package stub

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/capgarrick/deepfake-detector/internal/infra/metrics"
)

// chatState is what the stub remembers about one conversation: enough for
// the conversation_count field and nothing more.
type chatState struct {
	Turns    int
	LastSeen time.Time
}

// SessionStore tracks per-client chat state in memory. Sessions that stay
// idle past the TTL are dropped by the sweeper.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*chatState
	ttl      time.Duration
	log      *zerolog.Logger
}

func NewSessionStore(ttl time.Duration, logger *zerolog.Logger) *SessionStore {
	storeLog := logger.With().Str("component", "SessionStore").Logger()
	return &SessionStore{
		sessions: make(map[string]*chatState),
		ttl:      ttl,
		log:      &storeLog,
	}
}

// Touch bumps the turn counter for a session and returns the new count,
// creating the session on first contact.
func (s *SessionStore) Touch(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[id]
	if !ok {
		st = &chatState{}
		s.sessions[id] = st
	}
	st.Turns++
	st.LastSeen = time.Now()
	return st.Turns
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweep drops sessions idle past the TTL and returns how many went.
func (s *SessionStore) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, st := range s.sessions {
		if now.Sub(st.LastSeen) > s.ttl {
			delete(s.sessions, id)
			n++
		}
	}
	metrics.SetActiveSessions(len(s.sessions))
	return n
}

// RunSweeper periodically evicts idle sessions until ctx is canceled.
func (s *SessionStore) RunSweeper(ctx context.Context, interval time.Duration) error {
	s.log.Info().Msg("Starting session sweeper")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Stopping session sweeper")
			return ctx.Err()
		case <-ticker.C:
			if n := s.sweep(time.Now()); n > 0 {
				metrics.AddExpiredSessions(n)
				s.log.Info().Int("count", n).Msg("idle sessions dropped")
			}
		}
	}
}
