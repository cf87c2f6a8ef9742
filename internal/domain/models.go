// Package domain contains the core wire-and-storage types of the state and policy engine:
// identifiers, money, session/wallet/event/experience/fingerprint records and the session
// lifecycle state machine's enum.
package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// SessionId, GameId and WalletId wrap the same UUID representation but are kept as distinct
// types so handlers cannot accidentally pass one where another is expected.
type SessionId uuid.UUID
type GameId uuid.UUID
type WalletId uuid.UUID

func NewSessionId() SessionId { return SessionId(uuid.New()) }
func NewWalletId() WalletId   { return WalletId(uuid.New()) }

func (s SessionId) String() string { return uuid.UUID(s).String() }
func (g GameId) String() string    { return uuid.UUID(g).String() }
func (w WalletId) String() string  { return uuid.UUID(w).String() }

// IsZero reports whether the id is the nil UUID (the zero value), used by the experience
// store to reject inserts whose session_id was never set.
func (s SessionId) IsZero() bool { return uuid.UUID(s) == uuid.Nil }

func (s SessionId) MarshalJSON() ([]byte, error)  { return json.Marshal(uuid.UUID(s).String()) }
func (s *SessionId) UnmarshalJSON(b []byte) error { return unmarshalUUID(b, (*uuid.UUID)(s)) }
func (g GameId) MarshalJSON() ([]byte, error)     { return json.Marshal(uuid.UUID(g).String()) }
func (g *GameId) UnmarshalJSON(b []byte) error    { return unmarshalUUID(b, (*uuid.UUID)(g)) }
func (w WalletId) MarshalJSON() ([]byte, error)   { return json.Marshal(uuid.UUID(w).String()) }
func (w *WalletId) UnmarshalJSON(b []byte) error  { return unmarshalUUID(b, (*uuid.UUID)(w)) }

func unmarshalUUID(b []byte, out *uuid.UUID) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*out = id
	return nil
}

// ParseSessionId parses a string into a SessionId.
func ParseSessionId(s string) (SessionId, error) {
	id, err := uuid.Parse(s)
	return SessionId(id), err
}

// ParseGameId parses a string into a GameId.
func ParseGameId(s string) (GameId, error) {
	id, err := uuid.Parse(s)
	return GameId(id), err
}

// Currency is one of the three ISO codes this layer understands. No implicit conversion
// between currencies is performed anywhere in this package.
type Currency string

const (
	AUD Currency = "AUD"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// Money is a currency amount as a real number; operations on mismatched currencies are
// undefined at this layer and must be normalised by the caller.
type Money struct {
	Amount   float64  `json:"amount"`
	Currency Currency `json:"currency"`
}

// GameState is the enumerated lifecycle state of a session. See stateengine.Transition for
// the allowed-edge table.
type GameState string

const (
	Idle        GameState = "Idle"
	Initialized GameState = "Initialized"
	Probing     GameState = "Probing"
	Playing     GameState = "Playing"
	Evaluating  GameState = "Evaluating"
	Completed   GameState = "Completed"
)

func (g GameState) String() string { return string(g) }

// PlayerProfile describes the behavioural simulation profile attached at session creation.
// Only behaviorType drives anything (the simproxy package); maxBet is carried but not
// enforced by this core.
type PlayerProfile struct {
	BehaviorType string `json:"behaviorType"`
	MaxBet       *Money `json:"maxBet,omitempty"`
}

// SessionMetrics holds per-session gameplay counters.
type SessionMetrics struct {
	TotalSpins   int64   `json:"totalSpins"`
	TotalPayout  float64 `json:"totalPayout"`
}

// Session is the lifecycle container for one player driving one game through its states.
// Created in Initialized; never destroyed; Completed is terminal.
type Session struct {
	SessionId     SessionId      `json:"sessionId"`
	GameId        GameId         `json:"gameId"`
	State         GameState      `json:"state"`
	Metrics       SessionMetrics `json:"metrics"`
	PlayerProfile PlayerProfile  `json:"playerProfile"`
}

// Wallet is a player's ledger. balance.amount >= 0 and daily_spent.amount <= daily_limit.amount
// are invariants the wallet stores' ApplyOperation preserves; all three Money values share one currency.
// daily_spent never resets here (see DESIGN.md Open Question 5).
type Wallet struct {
	WalletId   WalletId `json:"walletId"`
	Balance    Money    `json:"balance"`
	DailyLimit Money    `json:"dailyLimit"`
	DailySpent Money    `json:"dailySpent"`
}

// WalletOperationType is one of the two lowercase wallet mutations.
type WalletOperationType string

const (
	Debit  WalletOperationType = "debit"
	Credit WalletOperationType = "credit"
)

// GameplayActionType is one of the three PascalCase action kinds accepted on insert.
type GameplayActionType string

const (
	PlaceBet GameplayActionType = "PlaceBet"
	Spin     GameplayActionType = "Spin"
	CashOut  GameplayActionType = "CashOut"
)

// GameplayAction is the request-shaped action driving a play-action call. amount is the
// stake for PlaceBet/Spin; it may be nil for CashOut.
type GameplayAction struct {
	Type   GameplayActionType `json:"type"`
	Amount *Money             `json:"amount,omitempty"`
}

// GameplayResult is the (stubbed) outcome of an action — see simproxy/Non-goals: real RNG-
// driven outcomes are out of scope for this core.
type GameplayResult struct {
	Symbols []string `json:"symbols,omitempty"`
	Payout  *Money   `json:"payout,omitempty"`
}

// GameplayEvent is a persisted record of one action+result pair. timestamp and reward are
// optional; action.type must be one of PlaceBet/Spin/CashOut at insert time.
type GameplayEvent struct {
	EventId   uuid.UUID          `json:"eventId"`
	SessionId SessionId          `json:"sessionId"`
	Action    GameplayActionType `json:"actionType"`
	Result    GameplayResult     `json:"result"`
	Timestamp *int64             `json:"timestamp,omitempty"`
	Reward    *float64           `json:"reward,omitempty"`
}

// Experience is an RL replay tuple. state/action/nextState are opaque JSON blobs by design
// (see DESIGN.md note on RL experience state serialisation) — this layer never decodes them
// back into a GameState.
type Experience struct {
	Id         uuid.UUID       `json:"id"`
	SessionId  SessionId       `json:"sessionId"`
	State      json.RawMessage `json:"state"`
	Action     json.RawMessage `json:"action"`
	Reward     float64         `json:"reward"`
	NextState  json.RawMessage `json:"nextState"`
	Done       bool            `json:"done"`
	CreatedAt  *int64          `json:"createdAt,omitempty"`
}

// GameFingerprint is a game analysis summary: RNG signature digest, symbol map and
// statistical profile, all opaque beyond the identifier. The extraction algorithms that
// would produce symbolMap/statisticalProfile are out of scope for this core.
type GameFingerprint struct {
	GameId             GameId          `json:"gameId"`
	RngSignature       string          `json:"rngSignature"`
	SymbolMap          json.RawMessage `json:"symbolMap"`
	StatisticalProfile json.RawMessage `json:"statisticalProfile"`
}
