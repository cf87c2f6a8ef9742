// Package store defines the persistence contracts for sessions, wallets, events,
// experiences and fingerprints, plus in-memory implementations of each. SQL-backed
// implementations live in internal/sqlstore and satisfy the same interfaces.
package store

import (
	"context"

	"github.com/alexbotov/rgs/internal/domain"
)

// SessionStore persists sessions by id and updates their state.
type SessionStore interface {
	Create(ctx context.Context, session domain.Session) error
	GetByID(ctx context.Context, id domain.SessionId) (*domain.Session, error)
	UpdateState(ctx context.Context, id domain.SessionId, state domain.GameState) (*domain.Session, error)
}

// WalletStore persists wallets and applies debit/credit operations with limit checks.
type WalletStore interface {
	Create(ctx context.Context, wallet domain.Wallet) error
	GetByID(ctx context.Context, id domain.WalletId) (*domain.Wallet, error)
	ApplyOperation(ctx context.Context, id domain.WalletId, op domain.WalletOperationType, amount domain.Money) (*domain.Wallet, error)
}

// EventStore persists gameplay events per session.
type EventStore interface {
	Insert(ctx context.Context, event domain.GameplayEvent) error
	ListBySession(ctx context.Context, sessionID domain.SessionId) ([]domain.GameplayEvent, error)
}

// ExperienceStore persists RL tuples and lists them ordered by created_at.
type ExperienceStore interface {
	Insert(ctx context.Context, exp domain.Experience) error
	ListBySession(ctx context.Context, sessionID domain.SessionId) ([]domain.Experience, error)
}

// FingerprintStore persists and retrieves game fingerprints.
type FingerprintStore interface {
	Get(ctx context.Context, gameID domain.GameId) (*domain.GameFingerprint, error)
	Save(ctx context.Context, fp domain.GameFingerprint) error
}
