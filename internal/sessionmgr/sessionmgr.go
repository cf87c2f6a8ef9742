// Package sessionmgr implements session lifecycle: create, get, and state transitions, on
// top of a store.SessionStore so the backend (in-memory or Postgres) is swappable.
package sessionmgr

import (
	"context"

	"github.com/alexbotov/rgs/internal/apperr"
	"github.com/alexbotov/rgs/internal/domain"
	"github.com/alexbotov/rgs/internal/stateengine"
	"github.com/alexbotov/rgs/internal/store"
	"github.com/sirupsen/logrus"
)

// CreateSessionRequest is the input to Manager.CreateSession.
type CreateSessionRequest struct {
	GameId        domain.GameId
	PlayerProfile domain.PlayerProfile
}

// Manager owns session creation and state transitions.
type Manager struct {
	sessions store.SessionStore
	log      *logrus.Entry
}

func New(sessions store.SessionStore, log *logrus.Entry) *Manager {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Manager{sessions: sessions, log: log}
}

// CreateSession creates a session in Initialized state and persists it.
func (m *Manager) CreateSession(ctx context.Context, req CreateSessionRequest) (*domain.Session, error) {
	session := domain.Session{
		SessionId:     domain.NewSessionId(),
		GameId:        req.GameId,
		State:         domain.Initialized,
		PlayerProfile: req.PlayerProfile,
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		return nil, apperr.NewInternal("failed to persist session", err)
	}
	m.log.WithField("session_id", session.SessionId.String()).Info("session created")
	return &session, nil
}

// GetSession returns the session by id, or an apperr.NotFound error.
func (m *Manager) GetSession(ctx context.Context, id domain.SessionId) (*domain.Session, error) {
	session, err := m.sessions.GetByID(ctx, id)
	if err == store.ErrNotFound {
		return nil, apperr.NewNotFound(id)
	}
	if err != nil {
		return nil, apperr.NewInternal("failed to load session", err)
	}
	return session, nil
}

// TransitionSession moves session_id to toState if the transition is valid, persists it, and
// logs the from/to pair.
func (m *Manager) TransitionSession(ctx context.Context, id domain.SessionId, toState domain.GameState) (*domain.Session, error) {
	current, err := m.sessions.GetByID(ctx, id)
	if err == store.ErrNotFound {
		return nil, apperr.NewNotFound(id)
	}
	if err != nil {
		return nil, apperr.NewInternal("failed to load session", err)
	}

	newState, terr := stateengine.Transition(current.State, toState)
	if terr != nil {
		return nil, apperr.NewInvalidTransition(current.State)
	}

	updated, err := m.sessions.UpdateState(ctx, id, newState)
	if err == store.ErrNotFound {
		return nil, apperr.NewNotFound(id)
	}
	if err != nil {
		return nil, apperr.NewInternal("failed to persist transition", err)
	}

	m.log.WithFields(logrus.Fields{
		"session_id": id.String(),
		"from":       current.State.String(),
		"to":         newState.String(),
	}).Info("state transition")
	return updated, nil
}
