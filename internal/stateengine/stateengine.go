// Package stateengine is the pure session-lifecycle state machine: Idle → Initialized →
// Probing → Playing → Evaluating → Completed. No transition ever panics; invalid edges
// return ErrInvalidTransition.
package stateengine

import (
	"errors"
	"fmt"

	"github.com/alexbotov/rgs/internal/domain"
)

// ErrInvalidTransition is the sentinel wrapped by InvalidTransitionError.
var ErrInvalidTransition = errors.New("invalid state transition")

// InvalidTransitionError carries the attempted from/to pair for callers that need it (the
// session manager maps From back into a 409 response, for example).
type InvalidTransitionError struct {
	From domain.GameState
	To   domain.GameState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

var allowed = map[domain.GameState][]domain.GameState{
	domain.Idle:        {domain.Initialized},
	domain.Initialized: {domain.Probing, domain.Playing},
	domain.Probing:     {domain.Playing},
	domain.Playing:     {domain.Evaluating},
	domain.Evaluating:  {domain.Playing, domain.Completed},
	domain.Completed:   {},
}

// Transition validates a move from one state to another against the allowed-edge table.
// from == to is always accepted (idempotent transition). Any other unlisted pair is an
// InvalidTransitionError.
func Transition(from, to domain.GameState) (domain.GameState, error) {
	if from == to {
		return to, nil
	}
	for _, next := range allowed[from] {
		if next == to {
			return to, nil
		}
	}
	return "", &InvalidTransitionError{From: from, To: to}
}

// TargetForAction maps a gameplay action type to the state the orchestrator attempts to
// transition into: PlaceBet → Playing, Spin → Evaluating, CashOut → Completed.
func TargetForAction(action domain.GameplayActionType) (domain.GameState, bool) {
	switch action {
	case domain.PlaceBet:
		return domain.Playing, true
	case domain.Spin:
		return domain.Evaluating, true
	case domain.CashOut:
		return domain.Completed, true
	default:
		return "", false
	}
}
