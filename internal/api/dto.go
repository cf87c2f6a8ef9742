// Package api provides the HTTP surface: request/response DTOs, handlers, middleware and
// the router wiring them together.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alexbotov/rgs/internal/apperr"
	"github.com/alexbotov/rgs/internal/domain"
)

// HealthResponse is the body of GET /v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// CreateSessionRequest is the body of POST /v1/sessions.
type CreateSessionRequest struct {
	GameId        domain.GameId        `json:"gameId"`
	PlayerProfile domain.PlayerProfile `json:"playerProfile"`
}

// CreateSessionResponse is the body of a successful POST /v1/sessions.
type CreateSessionResponse struct {
	SessionId domain.SessionId `json:"sessionId"`
	State     domain.GameState `json:"state"`
}

// PlayActionRequest is the body of POST /v1/sessions/{id}/action. HumanLikeness is optional
// and defaults to 0.5 per the reward function's orchestration rule.
type PlayActionRequest struct {
	Action        domain.GameplayAction `json:"action"`
	HumanLikeness *float64              `json:"humanLikeness,omitempty"`
}

// PlayActionResponse is the body of a successful play-action call.
type PlayActionResponse struct {
	Session domain.Session        `json:"session"`
	Result  domain.GameplayResult `json:"result"`
}

// SessionEventsResponse is the body of GET /v1/sessions/{id}/events.
type SessionEventsResponse struct {
	Events []domain.GameplayEvent `json:"events"`
}

// CreateWalletRequest is the body of POST /v1/wallets. InitialBalance defaults to zero in
// DailyLimit's currency when omitted.
type CreateWalletRequest struct {
	DailyLimit     domain.Money  `json:"dailyLimit"`
	InitialBalance *domain.Money `json:"initialBalance,omitempty"`
}

// WalletOperationRequest is the body of POST /v1/wallets/{id}/operations.
type WalletOperationRequest struct {
	Operation domain.WalletOperationType `json:"operation"`
	Amount    domain.Money               `json:"amount"`
}

// WalletOperationResponse is the body of a successful wallet operation.
type WalletOperationResponse struct {
	Wallet domain.Wallet `json:"wallet"`
}

// GameFingerprintResponse is the body of GET /v1/games/{id}/fingerprint.
type GameFingerprintResponse struct {
	Fingerprint domain.GameFingerprint `json:"fingerprint"`
}

// RLExportResponse is the body of GET /v1/rl/export.
type RLExportResponse struct {
	Experiences []domain.Experience `json:"experiences"`
}

// errorBody is the wire shape of every non-2xx response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    apperr.Code            `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	appErr := apperr.As(err)
	if appErr.Code == apperr.RateLimit {
		retryAfter := "60"
		if seconds, ok := appErr.Details["retryAfterSeconds"].(uint64); ok {
			retryAfter = strconv.FormatUint(seconds, 10)
		}
		w.Header().Set("Retry-After", retryAfter)
	}
	writeJSON(w, appErr.HTTPStatus(), errorBody{Error: errorDetail{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}})
}
