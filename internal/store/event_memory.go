package store

import (
	"context"
	"sort"
	"sync"

	"github.com/alexbotov/rgs/internal/domain"
)

var allowedActionTypes = map[domain.GameplayActionType]struct{}{
	domain.PlaceBet: {},
	domain.Spin:     {},
	domain.CashOut:  {},
}

// ValidateActionType reports whether action is one of PlaceBet, Spin, CashOut.
func ValidateActionType(action domain.GameplayActionType) bool {
	_, ok := allowedActionTypes[action]
	return ok
}

// InMemoryEventStore is a thread-safe, flat-slice event store.
type InMemoryEventStore struct {
	mu     sync.Mutex
	events []domain.GameplayEvent
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{}
}

func (s *InMemoryEventStore) Insert(ctx context.Context, event domain.GameplayEvent) error {
	if !ValidateActionType(event.Action) {
		return ErrInvalidAction
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryEventStore) ListBySession(ctx context.Context, sessionID domain.SessionId) ([]domain.GameplayEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []domain.GameplayEvent
	for _, e := range s.events {
		if e.SessionId == sessionID {
			matched = append(matched, e)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return timestampOrZero(matched[i].Timestamp) < timestampOrZero(matched[j].Timestamp)
	})
	return matched, nil
}

func timestampOrZero(ts *int64) int64 {
	if ts == nil {
		return 0
	}
	return *ts
}
