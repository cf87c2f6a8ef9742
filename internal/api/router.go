package api

import (
	"net/http"

	"github.com/alexbotov/rgs/internal/auth"
	"github.com/gorilla/mux"
)

// SetupRouter wires every route in the HTTP surface behind the shared middleware chain:
// recovery → CORS → logging → (per-route) rate-limit + auth → handler.
func (h *Handler) SetupRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(RecoveryMiddleware)
	if h.ipGuard != nil && h.ipGuard.Enabled() {
		r.Use(h.ipGuard.Middleware)
	}
	r.Use(CORSMiddleware)
	r.Use(LoggingMiddleware(h.log))

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	userAuth := h.AuthMiddleware(auth.User)
	adminAuth := h.AuthMiddleware(auth.Admin)

	sessions := v1.PathPrefix("/sessions").Subrouter()
	sessions.Use(userAuth)
	sessions.HandleFunc("", h.CreateSession).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}", h.GetSession).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}/action", h.PlayAction).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/events", h.SessionEvents).Methods(http.MethodGet)

	wallets := v1.PathPrefix("/wallets").Subrouter()
	wallets.Use(userAuth)
	wallets.HandleFunc("", h.CreateWallet).Methods(http.MethodPost)
	wallets.HandleFunc("/{id}/operations", h.WalletOperation).Methods(http.MethodPost)

	games := v1.PathPrefix("/games").Subrouter()
	games.Use(userAuth)
	games.HandleFunc("/{id}/fingerprint", h.GetFingerprint).Methods(http.MethodGet)

	rl := v1.PathPrefix("/rl").Subrouter()
	rl.Use(userAuth)
	rl.HandleFunc("/export", h.RLExport).Methods(http.MethodGet)

	metricsRoute := v1.PathPrefix("/metrics").Subrouter()
	metricsRoute.Use(adminAuth)
	metricsRoute.HandleFunc("", h.Metrics).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(NotFoundHandler)
	return r
}

// NotFoundHandler handles unmatched routes.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{
		Code:    "NOT_FOUND",
		Message: "resource not found",
	}})
}
