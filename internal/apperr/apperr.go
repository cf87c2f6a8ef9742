// Package apperr defines the domain error taxonomy and its external (HTTP) representation.
// Handlers never hand-roll status codes; they construct or pass through one of these and
// let Error.HTTPStatus translate it at the API boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is one of the SCREAMING_SNAKE_CASE error codes in the wire error body.
type Code string

const (
	Unauthorized        Code = "UNAUTHORIZED"
	Forbidden           Code = "FORBIDDEN"
	InvalidInput        Code = "INVALID_INPUT"
	NotFound            Code = "NOT_FOUND"
	StateError          Code = "STATE_ERROR"
	WalletLimitExceeded Code = "WALLET_LIMIT_EXCEEDED"
	RateLimit           Code = "RATE_LIMIT"
	InternalError       Code = "INTERNAL_ERROR"
)

// Error is the domain error every layer above the pure packages deals in. Message is safe
// to surface to the caller; Details is optional structured context.
type Error struct {
	Code    Code
	Message string
	Details map[string]interface{}
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus maps a Code to the status this spec fixes for it.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case InvalidInput:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case StateError:
		return http.StatusConflict
	case WalletLimitExceeded:
		return http.StatusPaymentRequired
	case RateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func newErr(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func NewNotFound(id fmt.Stringer) *Error {
	return newErr(NotFound, fmt.Sprintf("not found: %s", id), nil)
}

func NewInvalidTransition(from fmt.Stringer) *Error {
	return newErr(StateError, fmt.Sprintf("invalid transition from %s", from), nil)
}

func NewWalletLimitExceeded() *Error {
	return newErr(WalletLimitExceeded, "wallet limit exceeded", nil)
}

func NewInvalidInput(reason string) *Error {
	return newErr(InvalidInput, reason, nil)
}

func NewRateLimitExceeded(retryAfterSeconds uint64) *Error {
	e := newErr(RateLimit, "rate limit exceeded", nil)
	e.Details = map[string]interface{}{"retryAfterSeconds": retryAfterSeconds}
	return e
}

func NewUnauthorized(reason string) *Error {
	return newErr(Unauthorized, reason, nil)
}

func NewForbidden(reason string) *Error {
	return newErr(Forbidden, reason, nil)
}

func NewInternal(reason string, cause error) *Error {
	return newErr(InternalError, reason, cause)
}

// As extracts an *Error from err, or wraps err as an InternalError if it is not already one.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewInternal(err.Error(), err)
}
