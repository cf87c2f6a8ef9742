package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alexbotov/rgs/internal/domain"
	"github.com/alexbotov/rgs/internal/store"
)

// FingerprintStore is the Postgres-backed implementation of store.FingerprintStore.
type FingerprintStore struct {
	db *sql.DB
}

func NewFingerprintStore(db *sql.DB) *FingerprintStore {
	return &FingerprintStore{db: db}
}

func (s *FingerprintStore) Get(ctx context.Context, gameID domain.GameId) (*domain.GameFingerprint, error) {
	var gameIDStr, rngSignature string
	var symbolMap, statisticalProfile []byte

	row := s.db.QueryRowContext(ctx, `
		SELECT game_id, rng_signature, symbol_map, statistical_profile
		FROM game_fingerprints WHERE game_id = $1`, gameID.String())
	err := row.Scan(&gameIDStr, &rngSignature, &symbolMap, &statisticalProfile)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	id, err := domain.ParseGameId(gameIDStr)
	if err != nil {
		return nil, err
	}
	return &domain.GameFingerprint{
		GameId:             id,
		RngSignature:       rngSignature,
		SymbolMap:          symbolMap,
		StatisticalProfile: statisticalProfile,
	}, nil
}

func (s *FingerprintStore) Save(ctx context.Context, fp domain.GameFingerprint) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO game_fingerprints (game_id, rng_signature, symbol_map, statistical_profile)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (game_id) DO UPDATE SET rng_signature = $2, symbol_map = $3, statistical_profile = $4`,
		fp.GameId.String(), fp.RngSignature, []byte(fp.SymbolMap), []byte(fp.StatisticalProfile),
	)
	return err
}
