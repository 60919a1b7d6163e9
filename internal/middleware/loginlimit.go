package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/leadline/crm-server/internal/audit"
	"github.com/leadline/crm-server/internal/config"
	apperrors "github.com/leadline/crm-server/internal/errors"
	"github.com/leadline/crm-server/internal/httputil"
)

const loginCleanupPeriod = 5 * time.Minute

// LoginLimiter counts login attempts per key within a fixed window.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) bool
}

type loginAttempt struct {
	count       int
	windowStart time.Time
}

// MemoryLoginLimiter keeps attempt counters in process memory. It is used
// when no Redis instance is configured.
type MemoryLoginLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*loginAttempt
	maxAttempts int
	window      time.Duration
	lastCleanup time.Time
	now         func() time.Time
}

func NewMemoryLoginLimiter(maxAttempts int, window time.Duration) *MemoryLoginLimiter {
	return &MemoryLoginLimiter{
		attempts:    make(map[string]*loginAttempt),
		maxAttempts: maxAttempts,
		window:      window,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

func (l *MemoryLoginLimiter) cleanup(now time.Time) {
	if now.Sub(l.lastCleanup) < loginCleanupPeriod {
		return
	}
	l.lastCleanup = now

	for key, attempt := range l.attempts {
		if now.Sub(attempt.windowStart) > l.window {
			delete(l.attempts, key)
		}
	}
}

func (l *MemoryLoginLimiter) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.cleanup(now)

	attempt, exists := l.attempts[key]
	if !exists || now.Sub(attempt.windowStart) > l.window {
		l.attempts[key] = &loginAttempt{count: 1, windowStart: now}
		return true
	}

	if attempt.count >= l.maxAttempts {
		return false
	}

	attempt.count++
	return true
}

// LoginThrottle rejects login requests from a client that exceeded its
// attempt budget.
type LoginThrottle struct {
	limiter LoginLimiter
}

func NewLoginThrottle(limiter LoginLimiter) *LoginThrottle {
	return &LoginThrottle{limiter: limiter}
}

func (t *LoginThrottle) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !t.limiter.Allow(r.Context(), remoteHost(r)) {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventRateLimitExceed,
				Details: map[string]interface{}{"path": r.URL.Path},
			})
			w.Header().Set("Retry-After", strconv.Itoa(int(config.LoginWindow.Seconds())))
			httputil.WriteError(w, apperrors.RateLimitExceeded().
				WithDetails("Too many login attempts. Please try again later."))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// remoteHost strips the port from RemoteAddr. chi's RealIP middleware has
// already replaced it with the forwarded client address when present.
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
