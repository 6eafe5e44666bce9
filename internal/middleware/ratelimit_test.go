package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware_GeneralBudget(t *testing.T) {
	mw := NewRateLimitMiddleware(5, 1)
	handler := mw.Handler(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/merchants", nil))
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/merchants", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests","code":"RATE_LIMITED"}`, rec.Body.String())
}

func TestRateLimitMiddleware_LimitedAuth(t *testing.T) {
	mw := NewRateLimitMiddleware(100, 1)
	handler := mw.Handler(okHandler())

	// Burst is 1, so the second login in the same instant is rejected.
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, httptest.NewRequest(http.MethodPost, "/api/trpc/auth.login", nil))
	assert.Equal(t, http.StatusOK, rec1.Code)

	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, httptest.NewRequest(http.MethodPost, "/api/trpc/auth.login", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)

	// The general budget is separate.
	rec3 := httptest.NewRecorder()
	handler.ServeHTTP(rec3, httptest.NewRequest(http.MethodGet, "/api/roles", nil))
	assert.Equal(t, http.StatusOK, rec3.Code)
}

func TestRateLimitMiddleware_PerClient(t *testing.T) {
	mw := NewRateLimitMiddleware(100, 1)
	handler := mw.Handler(okHandler())

	for _, ip := range []string{"10.0.0.1", "10.0.0.2"} {
		req := httptest.NewRequest(http.MethodPost, "/api/trpc/auth.login", nil)
		req.Header.Set("X-Forwarded-For", ip+", 172.16.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, ip)
	}
}

func TestRateLimitMiddleware_HealthIsExempt(t *testing.T) {
	mw := NewRateLimitMiddleware(1, 1)
	handler := mw.Handler(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitMiddleware_Configuration(t *testing.T) {
	mw := NewRateLimitMiddleware(-1, 0)
	assert.Equal(t, 100, mw.generalRPM)
	assert.Equal(t, 10, mw.authRPM)
}

func TestRateLimitMiddleware_SweepsIdleClients(t *testing.T) {
	mw := NewRateLimitMiddleware(10, 10)

	stale := time.Now().Add(-2 * clientIdleTTL)
	for i := 0; i < clientSweepThreshold; i++ {
		mw.visitors[fmt.Sprintf("10.1.%d.%d", i/256, i%256)] = &visitor{limiters: map[string]*rate.Limiter{}, lastSeen: stale}
	}

	assert.True(t, mw.allow("192.168.0.9", "/api/merchants"))
	assert.Len(t, mw.visitors, 1)
}
