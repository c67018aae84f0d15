package memory

import (
	"context"
	"sync"

	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
	"github.com/superawesomeme/La-Palabra-Negra/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Sessions are copied on both save and load, matching the value
// semantics of the Redis backend's JSON round-trip: mutations on a
// loaded session are invisible until it is saved back.
type Storage struct {
	mu       sync.RWMutex
	sessions map[model.SessionCode]*model.Session
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions: make(map[model.SessionCode]*model.Session),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// copySession deep-copies a session so callers never share mutable
// state with the store
func copySession(s *model.Session) *model.Session {
	c := *s
	c.Players = append([]model.Player(nil), s.Players...)
	c.EnabledThemes = append([]string(nil), s.EnabledThemes...)
	if s.Round != nil {
		r := *s.Round
		if s.Round.Content != nil {
			content := *s.Round.Content
			r.Content = &content
		}
		r.Guesses = append([]model.GuessEntry(nil), s.Round.Guesses...)
		r.Results = append([]model.RoundResult(nil), s.Round.Results...)
		c.Round = &r
	}
	return &c
}

// SaveSession stores a copy of the session under its code
func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Code] = copySession(session)
	return nil
}

// GetSession retrieves a copy of the session by code
func (s *Storage) GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[code]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return copySession(session), nil
}

// DeleteSession removes a session
func (s *Storage) DeleteSession(ctx context.Context, code model.SessionCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, code)
	return nil
}

// SessionExists reports whether a session code is taken
func (s *Storage) SessionExists(ctx context.Context, code model.SessionCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[code]
	return ok, nil
}
