package handler

import (
	"net/http"

	"paygate-console/internal/access"
	"paygate-console/internal/model"
	"paygate-console/internal/service"
	"paygate-console/internal/session"
	"paygate-console/internal/validation"
	"paygate-console/pkg/apierror"
)

type AuthHandler struct {
	service  *service.AuthService
	sessions *session.Manager
	validate *validation.Validator
}

func NewAuthHandler(service *service.AuthService, sessions *session.Manager, validate *validation.Validator) *AuthHandler {
	return &AuthHandler{service: service, sessions: sessions, validate: validate}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := bind(w, r, h.validate, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := h.service.Login(r.Context(), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	stored, err := h.sessions.Create(w, sess)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.service.User(stored))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.logout(w, r)
	writeJSON(w, http.StatusOK, model.ActionResult{Success: true})
}

// LogoutPage serves GET /logout for plain links.
func (h *AuthHandler) LogoutPage(w http.ResponseWriter, r *http.Request) {
	h.logout(w, r)
	http.Redirect(w, r, access.LoginPath, http.StatusFound)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := h.sessions.Read(r); ok {
		h.service.Logout(r.Context(), sess)
	}
	h.sessions.Clear(w)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	if sess == nil {
		writeError(w, r, apierror.Unauthorized())
		return
	}

	writeJSON(w, http.StatusOK, h.service.User(*sess))
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var payload model.ChangePasswordRequest
	if err := bind(w, r, h.validate, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.service.ChangePassword(r.Context(), currentSession(r), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	stored, err := h.sessions.Create(w, updated)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.service.User(stored))
}
