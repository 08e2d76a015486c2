package core

import (
	"context"
	"maps"
	"sync"
	"time"
)

// Profile holds the user fields that personalize agent instructions. The
// cached balance lives here; there is no flat top-level balance key.
type Profile struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Currency string `json:"currency"`
	Balance  int64  `json:"balance"`
}

// DefaultProfile returns the profile applied to freshly created sessions.
func DefaultProfile() Profile {
	return Profile{Name: "User", Language: "English", Currency: "USD"}
}

// Session is the mutable record threaded through one conversation turn and
// persisted per session identifier. It is safe for concurrent access,
// although the router serializes turns per session id so that at most one
// turn mutates a session at a time.
//
// Contract:
//   - Messages are append-only; they are never reordered or truncated
//   - ActiveAgent is mutated only by the handoff protocol
//   - Clone performs deep copies so a working snapshot can diverge safely
type Session struct {
	ID          string         `json:"id"`
	ActiveAgent string         `json:"active_agent"`
	Profile     Profile        `json:"profile"`
	Messages    []Message      `json:"messages"`
	State       map[string]any `json:"state"`
	Created     time.Time      `json:"created"`
	Updated     time.Time      `json:"updated"`

	mu sync.RWMutex
}

// NewSession creates an empty session with the default profile.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:      id,
		Profile: DefaultProfile(),
		State:   map[string]any{},
		Created: now,
		Updated: now,
	}
}

// Get returns the value stored under key, or def when absent.
func (s *Session) Get(key string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.State[key]; ok {
		return v
	}
	return def
}

// Set stores a key/value pair in session state.
func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State[key] = value
	s.Updated = time.Now().UTC()
}

// AppendMessage appends a message to the history.
func (s *Session) AppendMessage(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, m)
	s.Updated = time.Now().UTC()
}

// History returns a defensive copy of the full message sequence.
func (s *Session) History() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.Messages))
	copy(out, s.Messages)
	return out
}

// RecentHistory returns at most n trailing messages.
func (s *Session) RecentHistory(n int) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if n > 0 && len(s.Messages) > n {
		start = len(s.Messages) - n
	}
	out := make([]Message, len(s.Messages)-start)
	copy(out, s.Messages[start:])
	return out
}

// StateSnapshot returns a shallow copy of the state map.
func (s *Session) StateSnapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.State))
	maps.Copy(out, s.State)
	return out
}

// GetProfile returns a copy of the user profile.
func (s *Session) GetProfile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Profile
}

// SetProfile replaces the user profile. Only designated actions write
// profile fields.
func (s *Session) SetProfile(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Profile = p
	s.Updated = time.Now().UTC()
}

// SetBalance updates the cached balance on the profile.
func (s *Session) SetBalance(balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Profile.Balance = balance
	s.Updated = time.Now().UTC()
}

// SetActiveAgent records the agent owning the next turn. Only the handoff
// protocol calls this.
func (s *Session) SetActiveAgent(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ActiveAgent = name
	s.Updated = time.Now().UTC()
}

// GetActiveAgent returns the identifier of the agent owning the turn, or
// the empty string when the coordinator owns the session.
func (s *Session) GetActiveAgent() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ActiveAgent
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:          s.ID,
		ActiveAgent: s.ActiveAgent,
		Profile:     s.Profile,
		Messages:    make([]Message, len(s.Messages)),
		State:       make(map[string]any, len(s.State)),
		Created:     s.Created,
		Updated:     s.Updated,
	}
	copy(clone.Messages, s.Messages)
	maps.Copy(clone.State, s.State)
	return clone
}

// Store persists session state between turns. Load returns an isolated
// snapshot the caller may mutate freely; nothing is visible to other
// callers until Save. The router calls each exactly once per turn and
// treats a Save failure as turn failure.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
}
