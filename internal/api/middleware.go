package api

import (
	"context"
	"net/http"
	"time"

	"github.com/alexbotov/rgs/internal/apperr"
	"github.com/alexbotov/rgs/internal/auth"
	"github.com/sirupsen/logrus"
)

type contextKey int

const roleContextKey contextKey = iota

// AuthMiddleware implements steps 2-3 of request orchestration: rate-limit check keyed by the
// raw Authorization header (or "anon"), then token validation and role derivation.
func (h *Handler) AuthMiddleware(requiredRole auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rateKey := r.Header.Get("Authorization")
			if rateKey == "" {
				rateKey = "anon"
			}
			if h.limiter != nil && !h.limiter.Check(rateKey) {
				writeError(w, apperr.NewRateLimitExceeded(h.limiter.RetryAfterSeconds(rateKey)))
				return
			}

			token, ok := auth.ParseBearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, apperr.NewUnauthorized("missing or malformed bearer token"))
				return
			}
			role, err := auth.ValidateToken(token, h.tokens)
			if err != nil {
				writeError(w, apperr.NewUnauthorized(err.Error()))
				return
			}
			if !auth.RoleAllowed(requiredRole, role) {
				writeError(w, apperr.NewForbidden("insufficient role"))
				return
			}

			ctx := context.WithValue(r.Context(), roleContextKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// statusRecorder captures the status code a handler wrote, for post-hoc access logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs method/path/status/duration via the given structured logger.
func LoggingMiddleware(log *logrus.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			}).Info("request handled")
		})
	}
}

// RecoveryMiddleware converts panics in downstream handlers into a 500 INTERNAL_ERROR body
// instead of crashing the connection.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				writeError(w, apperr.NewInternal("internal server error", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware adds permissive CORS headers, matching the teacher's dev-facing default.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
