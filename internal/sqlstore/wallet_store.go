package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alexbotov/rgs/internal/domain"
	"github.com/alexbotov/rgs/internal/store"
)

// WalletStore is the Postgres-backed implementation of store.WalletStore. ApplyOperation
// runs the read-check-write inside one transaction so concurrent debits on the same wallet
// cannot both pass the balance/limit check against a stale row.
type WalletStore struct {
	db *sql.DB
}

func NewWalletStore(db *sql.DB) *WalletStore {
	return &WalletStore{db: db}
}

func (s *WalletStore) Create(ctx context.Context, wallet domain.Wallet) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wallets (wallet_id, balance_amount, balance_currency, daily_limit_amount, daily_limit_currency, daily_spent_amount, daily_spent_currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		wallet.WalletId.String(), wallet.Balance.Amount, string(wallet.Balance.Currency),
		wallet.DailyLimit.Amount, string(wallet.DailyLimit.Currency),
		wallet.DailySpent.Amount, string(wallet.DailySpent.Currency),
	)
	return err
}

func (s *WalletStore) GetByID(ctx context.Context, id domain.WalletId) (*domain.Wallet, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT wallet_id, balance_amount, balance_currency, daily_limit_amount, daily_limit_currency, daily_spent_amount, daily_spent_currency
		FROM wallets WHERE wallet_id = $1`, id.String())
	wallet, err := scanWallet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return wallet, err
}

func (s *WalletStore) ApplyOperation(ctx context.Context, id domain.WalletId, op domain.WalletOperationType, amount domain.Money) (*domain.Wallet, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT wallet_id, balance_amount, balance_currency, daily_limit_amount, daily_limit_currency, daily_spent_amount, daily_spent_currency
		FROM wallets WHERE wallet_id = $1 FOR UPDATE`, id.String())
	wallet, err := scanWallet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	switch op {
	case domain.Debit:
		if wallet.Balance.Amount < amount.Amount {
			return nil, store.ErrWalletLimitExceeded
		}
		if wallet.DailySpent.Amount+amount.Amount > wallet.DailyLimit.Amount {
			return nil, store.ErrWalletLimitExceeded
		}
		wallet.Balance.Amount -= amount.Amount
		wallet.DailySpent.Amount += amount.Amount
	case domain.Credit:
		wallet.Balance.Amount += amount.Amount
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE wallets SET balance_amount = $1, daily_spent_amount = $2 WHERE wallet_id = $3`,
		wallet.Balance.Amount, wallet.DailySpent.Amount, id.String())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return wallet, nil
}

func scanWallet(row rowScanner) (*domain.Wallet, error) {
	var walletIDStr, balanceCurrency, dailyLimitCurrency, dailySpentCurrency string
	var balanceAmount, dailyLimitAmount, dailySpentAmount float64

	if err := row.Scan(&walletIDStr, &balanceAmount, &balanceCurrency, &dailyLimitAmount, &dailyLimitCurrency, &dailySpentAmount, &dailySpentCurrency); err != nil {
		return nil, err
	}

	id, err := domain.ParseSessionId(walletIDStr)
	if err != nil {
		return nil, err
	}

	return &domain.Wallet{
		WalletId:   domain.WalletId(id),
		Balance:    domain.Money{Amount: balanceAmount, Currency: domain.Currency(balanceCurrency)},
		DailyLimit: domain.Money{Amount: dailyLimitAmount, Currency: domain.Currency(dailyLimitCurrency)},
		DailySpent: domain.Money{Amount: dailySpentAmount, Currency: domain.Currency(dailySpentCurrency)},
	}, nil
}
