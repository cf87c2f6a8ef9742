package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alexbotov/rgs/internal/domain"
	"github.com/alexbotov/rgs/internal/store"
)

// SessionStore is the Postgres-backed implementation of store.SessionStore.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Create(ctx context.Context, session domain.Session) error {
	var maxBetAmount, maxBetCurrency interface{}
	if session.PlayerProfile.MaxBet != nil {
		maxBetAmount = session.PlayerProfile.MaxBet.Amount
		maxBetCurrency = string(session.PlayerProfile.MaxBet.Currency)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, game_id, state, total_spins, total_payout, behavior_type, max_bet_amount, max_bet_currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		session.SessionId.String(), session.GameId.String(), string(session.State),
		session.Metrics.TotalSpins, session.Metrics.TotalPayout,
		session.PlayerProfile.BehaviorType, maxBetAmount, maxBetCurrency,
	)
	return err
}

func (s *SessionStore) GetByID(ctx context.Context, id domain.SessionId) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, game_id, state, total_spins, total_payout, behavior_type, max_bet_amount, max_bet_currency
		FROM sessions WHERE session_id = $1`, id.String())
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionStore) UpdateState(ctx context.Context, id domain.SessionId, newState domain.GameState) (*domain.Session, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET state = $1 WHERE session_id = $2`, string(newState), id.String())
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var sessionIDStr, gameIDStr, stateStr, behaviorType string
	var totalSpins int64
	var totalPayout float64
	var maxBetAmount sql.NullFloat64
	var maxBetCurrency sql.NullString

	if err := row.Scan(&sessionIDStr, &gameIDStr, &stateStr, &totalSpins, &totalPayout, &behaviorType, &maxBetAmount, &maxBetCurrency); err != nil {
		return nil, err
	}

	sessionID, err := domain.ParseSessionId(sessionIDStr)
	if err != nil {
		return nil, err
	}
	gameID, err := domain.ParseGameId(gameIDStr)
	if err != nil {
		return nil, err
	}

	profile := domain.PlayerProfile{BehaviorType: behaviorType}
	if maxBetAmount.Valid && maxBetCurrency.Valid {
		profile.MaxBet = &domain.Money{Amount: maxBetAmount.Float64, Currency: domain.Currency(maxBetCurrency.String)}
	}

	return &domain.Session{
		SessionId:     sessionID,
		GameId:        gameID,
		State:         domain.GameState(stateStr),
		Metrics:       domain.SessionMetrics{TotalSpins: totalSpins, TotalPayout: totalPayout},
		PlayerProfile: profile,
	}, nil
}
