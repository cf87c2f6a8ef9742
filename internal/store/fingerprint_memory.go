package store

import (
	"context"
	"sync"

	"github.com/alexbotov/rgs/internal/domain"
)

// InMemoryFingerprintStore is a thread-safe fingerprint store keyed by game id.
type InMemoryFingerprintStore struct {
	mu           sync.Mutex
	fingerprints map[domain.GameId]domain.GameFingerprint
}

func NewInMemoryFingerprintStore() *InMemoryFingerprintStore {
	return &InMemoryFingerprintStore{fingerprints: make(map[domain.GameId]domain.GameFingerprint)}
}

func (s *InMemoryFingerprintStore) Get(ctx context.Context, gameID domain.GameId) (*domain.GameFingerprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fp, ok := s.fingerprints[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	return &fp, nil
}

func (s *InMemoryFingerprintStore) Save(ctx context.Context, fp domain.GameFingerprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fingerprints[fp.GameId] = fp
	return nil
}
