package store

import (
	"context"
	"sort"
	"sync"

	"github.com/alexbotov/rgs/internal/domain"
)

// InMemoryExperienceStore keys experiences by session id for O(1) lookup of the
// per-session list; insert appends.
type InMemoryExperienceStore struct {
	mu  sync.Mutex
	bySession map[domain.SessionId][]domain.Experience
}

func NewInMemoryExperienceStore() *InMemoryExperienceStore {
	return &InMemoryExperienceStore{bySession: make(map[domain.SessionId][]domain.Experience)}
}

func (s *InMemoryExperienceStore) Insert(ctx context.Context, exp domain.Experience) error {
	if exp.SessionId.IsZero() {
		return ErrNilSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bySession[exp.SessionId] = append(s.bySession[exp.SessionId], exp)
	return nil
}

// ListBySession returns experiences sorted by created_at ascending. Experiences without
// created_at sort before those with (insertion-order stable within each class) — this
// follows SPEC_FULL.md §4.8's explicit text, which differs from how the pre-distillation
// Rust store ordered missing-timestamp entries; see DESIGN.md Open Question 2.
func (s *InMemoryExperienceStore) ListBySession(ctx context.Context, sessionID domain.SessionId) ([]domain.Experience, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.bySession[sessionID]
	out := make([]domain.Experience, len(src))
	copy(out, src)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CreatedAt, out[j].CreatedAt
		if a == nil && b == nil {
			return false
		}
		if a == nil {
			return true
		}
		if b == nil {
			return false
		}
		return *a < *b
	})
	return out, nil
}
