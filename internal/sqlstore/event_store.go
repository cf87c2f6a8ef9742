package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/alexbotov/rgs/internal/domain"
	"github.com/alexbotov/rgs/internal/store"
	"github.com/google/uuid"
)

// EventStore is the Postgres-backed implementation of store.EventStore.
type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Insert(ctx context.Context, event domain.GameplayEvent) error {
	if !store.ValidateActionType(event.Action) {
		return store.ErrInvalidAction
	}
	if event.EventId == uuid.Nil {
		event.EventId = uuid.New()
	}
	result, err := json.Marshal(event.Result)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO gameplay_events (event_id, session_id, action_type, result, timestamp, reward)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.EventId, event.SessionId.String(), string(event.Action), result, event.Timestamp, event.Reward,
	)
	return err
}

func (s *EventStore) ListBySession(ctx context.Context, sessionID domain.SessionId) ([]domain.GameplayEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, session_id, action_type, result, timestamp, reward
		FROM gameplay_events WHERE session_id = $1 ORDER BY COALESCE(timestamp, 0) ASC`, sessionID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GameplayEvent
	for rows.Next() {
		var eventID uuid.UUID
		var sessionIDStr, actionType string
		var resultBytes []byte
		var timestamp sql.NullInt64
		var reward sql.NullFloat64

		if err := rows.Scan(&eventID, &sessionIDStr, &actionType, &resultBytes, &timestamp, &reward); err != nil {
			return nil, err
		}
		sid, err := domain.ParseSessionId(sessionIDStr)
		if err != nil {
			return nil, err
		}
		var result domain.GameplayResult
		if err := json.Unmarshal(resultBytes, &result); err != nil {
			return nil, err
		}

		event := domain.GameplayEvent{
			EventId:   eventID,
			SessionId: sid,
			Action:    domain.GameplayActionType(actionType),
			Result:    result,
		}
		if timestamp.Valid {
			ts := timestamp.Int64
			event.Timestamp = &ts
		}
		if reward.Valid {
			r := reward.Float64
			event.Reward = &r
		}
		out = append(out, event)
	}
	return out, rows.Err()
}
