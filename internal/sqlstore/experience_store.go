package sqlstore

import (
	"context"
	"database/sql"

	"github.com/alexbotov/rgs/internal/domain"
	"github.com/alexbotov/rgs/internal/store"
	"github.com/google/uuid"
)

// ExperienceStore persists RL replay tuples to the rl_store table so training data survives
// a restart. Ordering matches InMemoryExperienceStore: rows without created_at sort first,
// via the NULLS FIRST clause below.
type ExperienceStore struct {
	db *sql.DB
}

func NewExperienceStore(db *sql.DB) *ExperienceStore {
	return &ExperienceStore{db: db}
}

func (s *ExperienceStore) Insert(ctx context.Context, exp domain.Experience) error {
	if exp.SessionId.IsZero() {
		return store.ErrNilSession
	}
	if exp.Id == uuid.Nil {
		exp.Id = uuid.New()
	}
	var createdAt sql.NullInt64
	if exp.CreatedAt != nil {
		createdAt = sql.NullInt64{Int64: *exp.CreatedAt, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rl_store (id, session_id, state, action, reward, next_state, done, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		exp.Id, exp.SessionId.String(), []byte(exp.State), []byte(exp.Action), exp.Reward, []byte(exp.NextState), exp.Done, createdAt,
	)
	return err
}

func (s *ExperienceStore) ListBySession(ctx context.Context, sessionID domain.SessionId) ([]domain.Experience, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, state, action, reward, next_state, done, created_at
		FROM rl_store WHERE session_id = $1 ORDER BY created_at ASC NULLS FIRST`, sessionID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Experience
	for rows.Next() {
		var id uuid.UUID
		var sessionIDStr string
		var stateBytes, actionBytes, nextStateBytes []byte
		var reward float64
		var done bool
		var createdAt sql.NullInt64

		if err := rows.Scan(&id, &sessionIDStr, &stateBytes, &actionBytes, &reward, &nextStateBytes, &done, &createdAt); err != nil {
			return nil, err
		}
		sid, err := domain.ParseSessionId(sessionIDStr)
		if err != nil {
			return nil, err
		}

		exp := domain.Experience{
			Id:        id,
			SessionId: sid,
			State:     stateBytes,
			Action:    actionBytes,
			Reward:    reward,
			NextState: nextStateBytes,
			Done:      done,
		}
		if createdAt.Valid {
			ts := createdAt.Int64
			exp.CreatedAt = &ts
		}
		out = append(out, exp)
	}
	return out, rows.Err()
}
