package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alexbotov/rgs/internal/domain"
)

func TestSessionStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewInMemorySessionStore()
	id := domain.NewSessionId()
	session := domain.Session{SessionId: id, State: domain.Initialized}

	if err := s.Create(ctx, session); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := s.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != domain.Initialized {
		t.Errorf("got state %v", got.State)
	}
}

func TestSessionStoreUpdateStateUnknownID(t *testing.T) {
	s := NewInMemorySessionStore()
	_, err := s.UpdateState(context.Background(), domain.NewSessionId(), domain.Playing)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionStoreUpdateStateChangesState(t *testing.T) {
	ctx := context.Background()
	s := NewInMemorySessionStore()
	id := domain.NewSessionId()
	s.Create(ctx, domain.Session{SessionId: id, State: domain.Initialized})

	updated, err := s.UpdateState(ctx, id, domain.Playing)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.State != domain.Playing {
		t.Errorf("got %v", updated.State)
	}
}

func testWallet(id domain.WalletId, balance float64) domain.Wallet {
	return domain.Wallet{
		WalletId:   id,
		Balance:    domain.Money{Amount: balance, Currency: domain.AUD},
		DailyLimit: domain.Money{Amount: 1000, Currency: domain.AUD},
		DailySpent: domain.Money{Amount: 0, Currency: domain.AUD},
	}
}

func TestWalletStoreDebitReducesBalance(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryWalletStore()
	id := domain.NewWalletId()
	s.Create(ctx, testWallet(id, 100.0))

	w, err := s.ApplyOperation(ctx, id, domain.Debit, domain.Money{Amount: 10.0, Currency: domain.AUD})
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if w.Balance.Amount != 90.0 {
		t.Errorf("got balance %v", w.Balance.Amount)
	}
	if w.DailySpent.Amount != 10.0 {
		t.Errorf("got daily spent %v", w.DailySpent.Amount)
	}
}

func TestWalletStoreDebitExceedingBalance(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryWalletStore()
	id := domain.NewWalletId()
	s.Create(ctx, testWallet(id, 5.0))

	_, err := s.ApplyOperation(ctx, id, domain.Debit, domain.Money{Amount: 10.0, Currency: domain.AUD})
	if !errors.Is(err, ErrWalletLimitExceeded) {
		t.Errorf("expected ErrWalletLimitExceeded, got %v", err)
	}
}

func TestWalletStoreDebitExceedingDailyLimit(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryWalletStore()
	id := domain.NewWalletId()
	wallet := testWallet(id, 5000.0)
	wallet.DailyLimit = domain.Money{Amount: 5.0, Currency: domain.AUD}
	s.Create(ctx, wallet)

	_, err := s.ApplyOperation(ctx, id, domain.Debit, domain.Money{Amount: 10.0, Currency: domain.AUD})
	if !errors.Is(err, ErrWalletLimitExceeded) {
		t.Errorf("expected ErrWalletLimitExceeded, got %v", err)
	}
}

func TestWalletStoreCreditIncreasesBalanceOnlyNotDailySpent(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryWalletStore()
	id := domain.NewWalletId()
	s.Create(ctx, testWallet(id, 50.0))

	w, err := s.ApplyOperation(ctx, id, domain.Credit, domain.Money{Amount: 25.0, Currency: domain.AUD})
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if w.Balance.Amount != 75.0 {
		t.Errorf("got balance %v", w.Balance.Amount)
	}
	if w.DailySpent.Amount != 0 {
		t.Errorf("credit must not affect daily spent, got %v", w.DailySpent.Amount)
	}
}

func TestEventStoreRejectsInvalidActionType(t *testing.T) {
	s := NewInMemoryEventStore()
	err := s.Insert(context.Background(), domain.GameplayEvent{Action: "Jump"})
	if !errors.Is(err, ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
}

func TestEventStoreOrdersByTimestampMissingTreatedAsZero(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryEventStore()
	sid := domain.NewSessionId()
	ts10 := int64(10)
	ts5 := int64(5)

	s.Insert(ctx, domain.GameplayEvent{SessionId: sid, Action: domain.PlaceBet, Timestamp: &ts10})
	s.Insert(ctx, domain.GameplayEvent{SessionId: sid, Action: domain.Spin, Timestamp: nil})
	s.Insert(ctx, domain.GameplayEvent{SessionId: sid, Action: domain.CashOut, Timestamp: &ts5})

	events, err := s.ListBySession(ctx, sid)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	// missing timestamp treated as 0, so Spin (nil) sorts first, then CashOut(5), then PlaceBet(10)
	if events[0].Action != domain.Spin || events[1].Action != domain.CashOut || events[2].Action != domain.PlaceBet {
		t.Errorf("unexpected order: %v %v %v", events[0].Action, events[1].Action, events[2].Action)
	}
}

func TestExperienceStoreRejectsNilSession(t *testing.T) {
	s := NewInMemoryExperienceStore()
	err := s.Insert(context.Background(), domain.Experience{})
	if !errors.Is(err, ErrNilSession) {
		t.Errorf("expected ErrNilSession, got %v", err)
	}
}

func TestExperienceStoreOrderingMissingCreatedAtSortsFirst(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryExperienceStore()
	sid := domain.NewSessionId()
	t5 := int64(5)
	t1 := int64(1)

	s.Insert(ctx, domain.Experience{SessionId: sid, CreatedAt: &t5})
	s.Insert(ctx, domain.Experience{SessionId: sid, CreatedAt: nil})
	s.Insert(ctx, domain.Experience{SessionId: sid, CreatedAt: &t1})

	got, err := s.ListBySession(ctx, sid)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3, got %d", len(got))
	}
	if got[0].CreatedAt != nil {
		t.Error("expected missing-timestamp experience to sort first")
	}
	if *got[1].CreatedAt != 1 || *got[2].CreatedAt != 5 {
		t.Errorf("unexpected order of timestamped entries")
	}
}

func TestExperienceStoreInsertionOrderPreservedForIncreasingTimestamps(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryExperienceStore()
	sid := domain.NewSessionId()
	for i := int64(0); i < 5; i++ {
		ts := i
		s.Insert(ctx, domain.Experience{SessionId: sid, CreatedAt: &ts, Reward: float64(i)})
	}
	got, err := s.ListBySession(ctx, sid)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i, exp := range got {
		if exp.Reward != float64(i) {
			t.Errorf("index %d: expected reward %d, got %v", i, i, exp.Reward)
		}
	}
}

func TestFingerprintStoreSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryFingerprintStore()
	gid := domain.GameId(domain.NewSessionId())
	fp := domain.GameFingerprint{GameId: gid, RngSignature: "abc"}
	if err := s.Save(ctx, fp); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Get(ctx, gid)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RngSignature != "abc" {
		t.Errorf("got %v", got.RngSignature)
	}
}

func TestFingerprintStoreGetMissing(t *testing.T) {
	s := NewInMemoryFingerprintStore()
	_, err := s.Get(context.Background(), domain.GameId(domain.NewSessionId()))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
