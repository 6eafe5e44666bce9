package handler

import (
	"net/http"

	"paygate-console/internal/middleware"
	"paygate-console/internal/model"
)

// currentSession returns the session loaded by the session middleware, or
// nil. Services turn a nil session into 401 before calling upstream.
func currentSession(r *http.Request) *model.Session {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		return nil
	}
	return s
}
