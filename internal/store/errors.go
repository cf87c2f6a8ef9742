package store

import "errors"

// ErrNotFound is returned by GetByID/ApplyOperation/UpdateState when no record exists for
// the given id. Handlers map this to a 404.
var ErrNotFound = errors.New("not found")

// ErrInvalidAction is returned by EventStore.Insert when the event's action type is not one
// of PlaceBet, Spin, CashOut.
var ErrInvalidAction = errors.New("invalid gameplay action type")

// ErrNilSession is returned by ExperienceStore.Insert when the experience has no session id.
var ErrNilSession = errors.New("experience session_id must be non-nil")

// ErrWalletLimitExceeded is returned by WalletStore.ApplyOperation when a debit would
// violate the balance or daily-limit invariant.
var ErrWalletLimitExceeded = errors.New("wallet limit exceeded")
