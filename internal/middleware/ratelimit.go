package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	retryAfterSeconds = "60"
	// idle clients are swept once the table grows past this size
	clientSweepThreshold = 1000
	clientIdleTTL        = 10 * time.Minute
)

// budget is a named per-client token bucket refilled over one minute.
type budget struct {
	name     string
	rpm      int
	prefixes []string
}

func (b budget) matches(path string) bool {
	if len(b.prefixes) == 0 {
		return true
	}
	path = strings.ToLower(path)
	for _, prefix := range b.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

type visitor struct {
	limiters map[string]*rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware throttles each client IP. Auth calls draw from their
// own budget.
type RateLimitMiddleware struct {
	generalRPM int
	authRPM    int
	budgets    []budget

	mu       sync.Mutex
	visitors map[string]*visitor
}

func NewRateLimitMiddleware(generalRPM int, authRPM int) *RateLimitMiddleware {
	if generalRPM <= 0 {
		generalRPM = 100
	}
	if authRPM <= 0 {
		authRPM = 10
	}

	return &RateLimitMiddleware{
		generalRPM: generalRPM,
		authRPM:    authRPM,
		// first match wins
		budgets: []budget{
			{name: "auth", rpm: authRPM, prefixes: []string{"/api/trpc/auth.", "/api/auth/"}},
			{name: "general", rpm: generalRPM},
		},
		visitors: map[string]*visitor{},
	}
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		if !m.allow(extractClientIP(r), r.URL.Path) {
			w.Header().Set("Retry-After", retryAfterSeconds)
			writeJSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimitMiddleware) allow(clientIP string, path string) bool {
	var b budget
	for _, candidate := range m.budgets {
		if candidate.matches(path) {
			b = candidate
			break
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	v, ok := m.visitors[clientIP]
	if !ok {
		m.sweepLocked(now)
		v = &visitor{limiters: map[string]*rate.Limiter{}}
		m.visitors[clientIP] = v
	}
	v.lastSeen = now

	limiter, ok := v.limiters[b.name]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(b.rpm)), b.rpm)
		v.limiters[b.name] = limiter
	}

	return limiter.AllowN(now, 1)
}

func (m *RateLimitMiddleware) sweepLocked(now time.Time) {
	if len(m.visitors) < clientSweepThreshold {
		return
	}

	cutoff := now.Add(-clientIdleTTL)
	for ip, v := range m.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(m.visitors, ip)
		}
	}
}

func extractClientIP(r *http.Request) string {
	forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	realIP := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}

	if strings.TrimSpace(r.RemoteAddr) == "" {
		return "unknown"
	}

	return r.RemoteAddr
}
