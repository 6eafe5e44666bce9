package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"paygate-console/internal/model"
	"paygate-console/internal/rbac"
	"paygate-console/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

type SessionMiddleware struct {
	sessions *session.Manager
	table    *rbac.Table
}

func NewSessionMiddleware(sessions *session.Manager, table *rbac.Table) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, table: table}
}

// Load decodes the session cookie, if any, into the request context.
func (m *SessionMiddleware) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s, ok := m.sessions.Read(r); ok {
			r = r.WithContext(WithSession(r.Context(), s))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession rejects the request with 401 before any upstream call
// when there is no valid session.
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			s, found := m.sessions.Read(r)
			if !found {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
				return
			}
			r = r.WithContext(WithSession(r.Context(), s))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *SessionMiddleware) RequirePermission(req rbac.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, _ := SessionFromContext(r.Context())
			if !m.table.Check(s.Roles, req) {
				slog.WarnContext(r.Context(), "permission denied", "user_id", s.UserID, "roles", s.Roles, "required", req.Permissions, "path", r.URL.Path)
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func WithSession(ctx context.Context, s *model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

func SessionFromContext(ctx context.Context) (*model.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*model.Session)
	return s, ok && s != nil
}
