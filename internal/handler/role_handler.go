package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"paygate-console/internal/model"
	"paygate-console/internal/normalize"
	"paygate-console/internal/service"
	"paygate-console/internal/validation"
)

type RoleHandler struct {
	roles    *service.RoleService
	logs     *service.LogService
	validate *validation.Validator
}

func NewRoleHandler(roles *service.RoleService, logs *service.LogService, validate *validation.Validator) *RoleHandler {
	return &RoleHandler{roles: roles, logs: logs, validate: validate}
}

func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.roles.List(r.Context(), currentSession(r), normalize.ParsePageRequest(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	role, err := h.roles.Get(r.Context(), currentSession(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, role)
}

// Logs serves the audit trail.
func (h *RoleHandler) Logs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.AuditLogFilter{
		Action:   q.Get("action"),
		Actor:    q.Get("actor"),
		Resource: q.Get("resource"),
		From:     q.Get("from"),
		To:       q.Get("to"),
	}
	if err := h.validate.Check(filter); err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.logs.List(r.Context(), currentSession(r), filter, normalize.ParsePageRequest(q))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}
