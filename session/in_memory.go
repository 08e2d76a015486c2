// Package session provides core.Store implementations: a volatile in-memory
// store for tests and demos, and a Redis-backed store for multi-node
// deployments.
package session

import (
	"context"
	"sync"

	"github.com/AIter-Team/Flo/core"
)

// InMemoryStore is a volatile Store implementation holding sessions in a
// process-local map. It is safe for concurrent access and best suited for
// tests or ephemeral demo servers. Load and Save exchange clones so callers
// never share mutable state with the store.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// Load returns an isolated snapshot of the session, creating it lazily with
// the default profile when absent.
func (s *InMemoryStore) Load(ctx context.Context, sessionID string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return sess.Clone(), nil
	}
	sess := core.NewSession(sessionID)
	s.sessions[sessionID] = sess
	return sess.Clone(), nil
}

// Save stores a clone of the provided session snapshot.
func (s *InMemoryStore) Save(ctx context.Context, sess *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

// Delete removes a session, if present.
func (s *InMemoryStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len returns the number of stored sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
