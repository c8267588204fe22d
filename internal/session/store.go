package session

import (
	"sync"

	"github.com/google/uuid"
)

// Store maps opaque session tokens to user ids. It is process-local by design:
// a restart invalidates every session. Construct one in main and inject it into
// whatever needs to authenticate callers.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]string
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]string)}
}

// Create records a fresh token for userID and returns it. Tokens are uuids and
// never reused.
func (s *Store) Create(userID string) string {
	token := uuid.NewString()

	s.mu.Lock()
	s.sessions[token] = userID
	s.mu.Unlock()

	return token
}

// Resolve returns the user id bound to token, if any.
func (s *Store) Resolve(token string) (string, bool) {
	s.mu.RLock()
	userID, ok := s.sessions[token]
	s.mu.RUnlock()
	return userID, ok
}

// Destroy removes token. Destroying an unknown token is a no-op.
func (s *Store) Destroy(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
