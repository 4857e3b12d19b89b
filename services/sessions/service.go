package sessions

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// DefaultTTL is how long a session stays valid without being recreated.
const DefaultTTL = 30 * 24 * time.Hour

// Session ties an opaque session ID to an account.
type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service is a process-wide in-memory session store keyed by opaque
// session IDs. Expired sessions are evicted lazily on lookup.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates an empty session store with the default TTL.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]Session),
		ttl:      DefaultTTL,
		now:      time.Now,
	}
}

// Create starts a new session for the given account.
func (s *Service) Create(userID int64) Session {
	now := s.now().UTC()
	session := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session
}

// Get returns the session for the given ID. Missing and expired sessions
// both return ErrSessionNotFound.
func (s *Service) Get(id string) (Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Session{}, ErrSessionNotFound
	}

	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return Session{}, ErrSessionNotFound
	}

	if s.now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return Session{}, ErrSessionNotFound
	}

	return session, nil
}

// Delete ends a session. Deleting an unknown session is a no-op.
func (s *Service) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Count reports the number of live (possibly expired but not yet evicted)
// sessions, used by the status output.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
