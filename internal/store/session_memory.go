package store

import (
	"context"
	"sync"

	"github.com/alexbotov/rgs/internal/domain"
)

// InMemorySessionStore is a thread-safe session store for tests and single-process
// deployments without a configured database.
type InMemorySessionStore struct {
	mu       sync.Mutex
	sessions map[domain.SessionId]domain.Session
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[domain.SessionId]domain.Session)}
}

func (s *InMemorySessionStore) Create(ctx context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SessionId] = session
	return nil
}

func (s *InMemorySessionStore) GetByID(ctx context.Context, id domain.SessionId) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (s *InMemorySessionStore) UpdateState(ctx context.Context, id domain.SessionId, state domain.GameState) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	session.State = state
	s.sessions[id] = session
	return &session, nil
}
