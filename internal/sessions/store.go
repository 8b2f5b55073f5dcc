// Package sessions holds import sessions behind a narrow key-value
// interface. Sessions live for the lifetime of the process: there is no
// persistence, and a restart loses all of them.
package sessions

import (
	"sync"
	"time"

	"github.com/cur8t/agents/internal/entities"
)

// Store is the narrow surface the orchestrator depends on. The concurrency
// discipline is single writer per session id: the store serializes map
// access but does not order concurrent mutations of the same session.
type Store interface {
	Get(id string) (*entities.Session, bool)
	Put(session *entities.Session)
	Delete(id string) bool
	DeleteExpired(olderThan time.Time) int
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entities.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*entities.Session),
	}
}

func (s *MemoryStore) Get(id string) (*entities.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *MemoryStore) Put(session *entities.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

// Delete removes a session and reports whether it existed.
func (s *MemoryStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// DeleteExpired evicts sessions created before olderThan and returns how
// many were removed. Eviction is owned by the scheduler's sweep; Get never
// expires lazily.
func (s *MemoryStore) DeleteExpired(olderThan time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if session.CreatedAt.Before(olderThan) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions. Used by health reporting.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
