// internal/httpapi/ratelimit.go
//
// Fixed-window request limiter, keyed by client IP.
//
// Context
// -------
// Counters live in process memory: each node enforces the threshold
// independently, which is acceptable because the limiter protects the
// render pipeline behind it, not a global quota.  RealIP runs earlier in
// the chain, so RemoteAddr already reflects X-Forwarded-For when the
// proxy set it.  Windows are swept lazily on access and in bulk when the
// map grows past sweepSize.
package httpapi

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const sweepSize = 4096

type window struct {
	count int
	reset time.Time
}

type limiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	span      time.Duration
	threshold int
}

func newLimiter(span time.Duration, threshold int) *limiter {
	return &limiter{
		windows:   make(map[string]*window),
		span:      span,
		threshold: threshold,
	}
}

// allow counts one request for key and reports whether it is within the
// window budget, plus the seconds until the window resets.
func (l *limiter) allow(key string) (bool, int) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.windows) > sweepSize {
		for k, win := range l.windows {
			if now.After(win.reset) {
				delete(l.windows, k)
			}
		}
	}

	win, ok := l.windows[key]
	if !ok || now.After(win.reset) {
		win = &window{reset: now.Add(l.span)}
		l.windows[key] = win
	}
	win.count++
	return win.count <= l.threshold, int(time.Until(win.reset).Seconds()) + 1
}

func (l *limiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if host, _, err := net.SplitHostPort(key); err == nil {
			key = host
		}

		ok, retryAfter := l.allow(key)
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
