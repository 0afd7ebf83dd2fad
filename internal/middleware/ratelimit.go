package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter counts attempts per client in fixed windows.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	clients   map[string]*attempts
	lastSweep time.Time
	now       func() time.Time
}

type attempts struct {
	count int
	reset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*attempts),
		now:     time.Now,
	}
}

// Allow records an attempt by key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	a, ok := rl.clients[key]
	if !ok || !now.Before(a.reset) {
		rl.clients[key] = &attempts{count: 1, reset: now.Add(rl.window)}
		return true
	}
	if a.count >= rl.limit {
		return false
	}
	a.count++
	return true
}

// sweep drops expired windows at most once per window so the map stays
// bounded without a background goroutine.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now
	for key, a := range rl.clients {
		if !now.Before(a.reset) {
			delete(rl.clients, key)
		}
	}
}

// RateLimitAuth limits login and registration attempts per IP within
// window. A limit of zero or less disables limiting.
func RateLimitAuth(limit int, window time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	if limit <= 0 {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}
	limiter := NewRateLimiter(limit, window)
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)
			if limiter.Allow(ip) {
				next(w, r)
				return
			}

			slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", retryAfter)
			http.Error(w, "Too many attempts. Please try again later.", http.StatusTooManyRequests)
		}
	}
}

// getClientIP prefers proxy headers over the socket address.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
