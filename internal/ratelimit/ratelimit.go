// Package ratelimit implements the fixed-window per-key admission control described in
// SPEC_FULL.md §4.3: max_requests per window per key (bearer token, or "anon"). Unknown keys
// start a fresh window on first use. Internal failures fail open — denying under an internal
// error would be worse than the protection itself.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultMaxRequests = 100
	DefaultWindow       = 60 * time.Second
)

type window struct {
	start time.Time
	count uint32
}

// Limiter is a fixed-window counter keyed by an arbitrary string. Safe for concurrent use.
// It never evicts expired keys; unbounded key growth is accepted, matching a single-process,
// moderate-token-count deployment.
type Limiter struct {
	mu          sync.Mutex
	windows     map[string]window
	maxRequests uint32
	window      time.Duration
}

// New constructs a Limiter with the given per-window request budget.
func New(maxRequests uint32, windowDuration time.Duration) *Limiter {
	if maxRequests == 0 {
		maxRequests = DefaultMaxRequests
	}
	if windowDuration <= 0 {
		windowDuration = DefaultWindow
	}
	return &Limiter{
		windows:     make(map[string]window),
		maxRequests: maxRequests,
		window:      windowDuration,
	}
}

// Check atomically advances key's window and reports whether the request is allowed. If the
// current window has expired it resets to (now, 1) and allows; otherwise it denies once
// count reaches maxRequests, else increments and allows.
func (l *Limiter) Check(key string) (allowed bool) {
	defer func() {
		if recover() != nil {
			allowed = true
		}
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.windows[key] = window{start: now, count: 1}
		return true
	}
	if w.count >= l.maxRequests {
		return false
	}
	w.count++
	l.windows[key] = w
	return true
}

// RetryAfterSeconds returns the remaining seconds in key's current window if it is over the
// limit, clamped to >= 1. Unknown keys return 1.
func (l *Limiter) RetryAfterSeconds(key string) (seconds uint64) {
	defer func() {
		if recover() != nil {
			seconds = 1
		}
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || w.count < l.maxRequests {
		return 1
	}
	elapsed := time.Since(w.start)
	if elapsed >= l.window {
		return 1
	}
	remaining := int64(l.window.Seconds()) - int64(elapsed.Seconds())
	if remaining < 1 {
		remaining = 1
	}
	return uint64(remaining)
}
