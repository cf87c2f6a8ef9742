// Package sqlstore provides Postgres-backed implementations of the store interfaces, for
// deployments that need gameplay history and RL replay data to survive a restart.
package sqlstore

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps a sql.DB with the migration helper used by every store in this package.
type DB struct {
	*sql.DB
}

// New opens (and pings) a Postgres connection.
func New(driver, dsn string) (*DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{DB: db}, nil
}

// Migrate creates all tables this package's stores depend on.
func (db *DB) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id UUID PRIMARY KEY,
		game_id UUID NOT NULL,
		state VARCHAR(32) NOT NULL,
		total_spins BIGINT NOT NULL DEFAULT 0,
		total_payout DOUBLE PRECISION NOT NULL DEFAULT 0,
		behavior_type VARCHAR(32) NOT NULL DEFAULT '',
		max_bet_amount DOUBLE PRECISION,
		max_bet_currency VARCHAR(3)
	);

	CREATE TABLE IF NOT EXISTS wallets (
		wallet_id UUID PRIMARY KEY,
		balance_amount DOUBLE PRECISION NOT NULL,
		balance_currency VARCHAR(3) NOT NULL,
		daily_limit_amount DOUBLE PRECISION NOT NULL,
		daily_limit_currency VARCHAR(3) NOT NULL,
		daily_spent_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		daily_spent_currency VARCHAR(3) NOT NULL
	);

	CREATE TABLE IF NOT EXISTS gameplay_events (
		event_id UUID PRIMARY KEY,
		session_id UUID NOT NULL REFERENCES sessions(session_id),
		action_type VARCHAR(32) NOT NULL,
		result JSONB NOT NULL,
		timestamp BIGINT,
		reward DOUBLE PRECISION
	);

	CREATE TABLE IF NOT EXISTS rl_store (
		id UUID PRIMARY KEY,
		session_id UUID NOT NULL,
		state JSONB NOT NULL,
		action JSONB NOT NULL,
		reward DOUBLE PRECISION NOT NULL,
		next_state JSONB NOT NULL,
		done BOOLEAN NOT NULL,
		created_at BIGINT DEFAULT EXTRACT(EPOCH FROM now())::BIGINT
	);

	CREATE TABLE IF NOT EXISTS game_fingerprints (
		game_id UUID PRIMARY KEY,
		rng_signature TEXT NOT NULL,
		symbol_map JSONB,
		statistical_profile JSONB
	);

	CREATE INDEX IF NOT EXISTS idx_events_session ON gameplay_events(session_id);
	CREATE INDEX IF NOT EXISTS idx_rl_store_session_created ON rl_store(session_id, created_at);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Reset drops every table this package created, for integration test teardown.
func (db *DB) Reset() error {
	_, err := db.Exec(`
		DROP TABLE IF EXISTS rl_store CASCADE;
		DROP TABLE IF EXISTS gameplay_events CASCADE;
		DROP TABLE IF EXISTS game_fingerprints CASCADE;
		DROP TABLE IF EXISTS wallets CASCADE;
		DROP TABLE IF EXISTS sessions CASCADE;
	`)
	return err
}
