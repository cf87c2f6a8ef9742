package sqlstore

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alexbotov/rgs/internal/domain"
	"github.com/alexbotov/rgs/internal/store"
)

func TestEventStoreInsertRejectsInvalidAction(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := NewEventStore(db)
	err = s.Insert(context.Background(), domain.GameplayEvent{Action: "Jump"})
	if err != store.ErrInvalidAction {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
}

func TestEventStoreInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := NewEventStore(db)
	sid := domain.NewSessionId()
	mock.ExpectExec("INSERT INTO gameplay_events").WillReturnResult(sqlmock.NewResult(1, 1))

	err = s.Insert(context.Background(), domain.GameplayEvent{SessionId: sid, Action: domain.PlaceBet})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEventStoreListBySession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := NewEventStore(db)
	sid := domain.NewSessionId()
	eid := domain.NewSessionId()

	rows := sqlmock.NewRows([]string{"event_id", "session_id", "action_type", "result", "timestamp", "reward"}).
		AddRow(eid.String(), sid.String(), "Spin", []byte(`{}`), nil, nil)
	mock.ExpectQuery("SELECT event_id, session_id, action_type").WithArgs(sid.String()).WillReturnRows(rows)

	events, err := s.ListBySession(context.Background(), sid)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 1 || events[0].Action != domain.Spin {
		t.Errorf("unexpected events: %+v", events)
	}
}
