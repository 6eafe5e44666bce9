package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"paygate-console/internal/access"
	"paygate-console/internal/model"
	"paygate-console/internal/rbac"
	"paygate-console/internal/session"
)

func newTestManager(t *testing.T) *session.Manager {
	t.Helper()

	codec, err := session.NewCodec("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)
	return session.NewManager(codec, "session", false)
}

func withSessionCookie(t *testing.T, m *session.Manager, req *http.Request, s model.Session) {
	t.Helper()

	rec := httptest.NewRecorder()
	_, err := m.Create(rec, s)
	require.NoError(t, err)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
}

func TestRequireSession(t *testing.T) {
	manager := newTestManager(t)
	mw := NewSessionMiddleware(manager, rbac.NewTable(rbac.DefaultRoles()))

	var seen *model.Session
	handler := mw.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing cookie is 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/disbursements/1/retry", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.JSONEq(t, `{"error":"Unauthorized","code":"UNAUTHORIZED"}`, rec.Body.String())
	})

	t.Run("garbage cookie is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/roles", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "not-a-token"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid cookie reaches handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/roles", nil)
		withSessionCookie(t, manager, req, model.Session{UserID: "1", Token: "tok"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, seen)
		require.Equal(t, "tok", seen.Token)
	})
}

func TestRequirePermission(t *testing.T) {
	manager := newTestManager(t)
	mw := NewSessionMiddleware(manager, rbac.NewTable(rbac.DefaultRoles()))
	handler := mw.RequirePermission(rbac.Any(rbac.PermissionDisbursementsWrite))(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/disbursements/1/retry", nil)
	withSessionCookie(t, manager, req, model.Session{UserID: "1", Token: "tok", Roles: []string{rbac.RoleSupport}})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/disbursements/1/retry", nil)
	withSessionCookie(t, manager, req, model.Session{UserID: "2", Token: "tok", Roles: []string{rbac.RoleFinance}})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGuard(t *testing.T) {
	manager := newTestManager(t)
	policy := access.NewPolicy(access.DefaultConfig(), rbac.NewTable(rbac.DefaultRoles()))
	handler := Guard(policy, manager)(okHandler())

	t.Run("anonymous page request goes to login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/merchants", nil))
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/login?from=%2Fadmin%2Fmerchants", rec.Header().Get("Location"))
	})

	t.Run("public page is served", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("stale cookie is cleared", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "expired"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusFound, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, -1, cookies[0].MaxAge)
	})

	t.Run("merchant user on admin portal goes home", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/transactions", nil)
		withSessionCookie(t, manager, req, model.Session{UserID: "1", Token: "tok", UserType: model.UserTypeMerchant, Roles: []string{rbac.RoleMerchantUser}})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/merchant/dashboard", rec.Header().Get("Location"))
	})

	t.Run("permitted page is served", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/transactions/12345", nil)
		withSessionCookie(t, manager, req, model.Session{UserID: "1", Token: "tok", Roles: []string{rbac.RoleSupport}})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(true)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestRecoveryWritesJSONError(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/roles", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"Internal server error","code":"INTERNAL_ERROR"}`, rec.Body.String())
}

func TestLoggingSetsRequestID(t *testing.T) {
	handler := Logging(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/roles", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/roles", nil))
	require.Len(t, rec.Header().Get("X-Request-ID"), 36)
}
