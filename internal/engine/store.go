package engine

import (
	"sync"

	"github.com/tatianab/sales-game/internal/models"
)

// SessionStore holds live game sessions keyed by session id. Implementations
// must be safe for concurrent use across different session ids.
type SessionStore interface {
	Get(sessionID string) (*models.GameSession, bool)
	Put(session *models.GameSession)
	Delete(sessionID string)
}

// MemoryStore is a process-local SessionStore. Sessions do not survive a
// restart; that is by contract, not a limitation.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.GameSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.GameSession),
	}
}

func (s *MemoryStore) Get(sessionID string) (*models.GameSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *MemoryStore) Put(session *models.GameSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SessionID] = session
}

func (s *MemoryStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
