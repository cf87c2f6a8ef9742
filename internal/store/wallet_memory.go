package store

import (
	"context"
	"sync"

	"github.com/alexbotov/rgs/internal/domain"
)

// InMemoryWalletStore is a thread-safe wallet store. All mutations on a single wallet are
// linearisable: the whole read-check-write sequence runs under one lock held for the
// duration of ApplyOperation.
type InMemoryWalletStore struct {
	mu      sync.Mutex
	wallets map[domain.WalletId]domain.Wallet
}

func NewInMemoryWalletStore() *InMemoryWalletStore {
	return &InMemoryWalletStore{wallets: make(map[domain.WalletId]domain.Wallet)}
}

func (s *InMemoryWalletStore) Create(ctx context.Context, wallet domain.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[wallet.WalletId] = wallet
	return nil
}

func (s *InMemoryWalletStore) GetByID(ctx context.Context, id domain.WalletId) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wallet, ok := s.wallets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &wallet, nil
}

func (s *InMemoryWalletStore) ApplyOperation(ctx context.Context, id domain.WalletId, op domain.WalletOperationType, amount domain.Money) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet, ok := s.wallets[id]
	if !ok {
		return nil, ErrNotFound
	}

	switch op {
	case domain.Debit:
		if wallet.Balance.Amount < amount.Amount {
			return nil, ErrWalletLimitExceeded
		}
		if wallet.DailySpent.Amount+amount.Amount > wallet.DailyLimit.Amount {
			return nil, ErrWalletLimitExceeded
		}
		wallet.Balance.Amount -= amount.Amount
		wallet.DailySpent.Amount += amount.Amount
	case domain.Credit:
		wallet.Balance.Amount += amount.Amount
	}

	s.wallets[id] = wallet
	return &wallet, nil
}
