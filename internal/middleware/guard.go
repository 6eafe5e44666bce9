package middleware

import (
	"log/slog"
	"net/http"

	"paygate-console/internal/access"
	"paygate-console/internal/session"
)

// Guard enforces the portal access policy on page requests. Denied
// requests are redirected with 302; a cookie that no longer decodes is
// cleared on the way.
func Guard(policy *access.Policy, sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := sessions.Read(r)
			if !ok {
				s = nil
				if _, err := r.Cookie(sessions.CookieName()); err == nil {
					sessions.Clear(w)
				}
			}

			decision := policy.Decide(r.URL.Path, s)
			if decision.Outcome == access.Redirect {
				slog.DebugContext(r.Context(), "guard redirect", "path", r.URL.Path, "state", decision.State.String(), "location", decision.Location, "reason", decision.Reason)
				http.Redirect(w, r, decision.Location, http.StatusFound)
				return
			}

			if s != nil {
				r = r.WithContext(WithSession(r.Context(), s))
			}
			next.ServeHTTP(w, r)
		})
	}
}
