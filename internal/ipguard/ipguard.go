// Package ipguard applies an outer, IP-keyed token-bucket burst guard in front of the
// per-token fixed window in internal/ratelimit. It is additive transport-edge hardening:
// absent configuration disables it; when enabled it can reject a request with 429 even though
// the per-token window would still admit it, and it leaves the per-token window's own
// counting unchanged.
package ipguard

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// Guard tracks one token bucket per client IP, evicting nothing (bounded by the number of
// distinct IPs seen, acceptable for the burst-guard use case).
type Guard struct {
	mu             sync.Mutex
	buckets        map[string]*rate.Limiter
	ratePerSecond  rate.Limit
	burst          int
}

// New builds a disabled guard when ratePerSecond <= 0, matching the ambient "absent config
// disables it" fail-open contract.
func New(ratePerSecond float64, burst int) *Guard {
	return &Guard{
		buckets:       make(map[string]*rate.Limiter),
		ratePerSecond: rate.Limit(ratePerSecond),
		burst:         burst,
	}
}

// Enabled reports whether this guard was configured with a positive rate.
func (g *Guard) Enabled() bool { return g.ratePerSecond > 0 && g.burst > 0 }

// Allow reports whether the request from ip may proceed, creating its bucket on first sight.
func (g *Guard) Allow(ip string) bool {
	if !g.Enabled() {
		return true
	}
	g.mu.Lock()
	limiter, ok := g.buckets[ip]
	if !ok {
		limiter = rate.NewLimiter(g.ratePerSecond, g.burst)
		g.buckets[ip] = limiter
	}
	g.mu.Unlock()
	return limiter.Allow()
}

// clientIP extracts the remote IP, preferring X-Forwarded-For's first hop when present.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware rejects with 429 any request exceeding the IP bucket; when disabled it is a
// pass-through. text/plain body, distinct from the JSON apperr envelope used downstream,
// since this guard sits ahead of the application's error taxonomy.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Allow(clientIP(r)) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte("too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
