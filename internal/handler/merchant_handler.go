package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"paygate-console/internal/model"
	"paygate-console/internal/normalize"
	"paygate-console/internal/service"
	"paygate-console/internal/validation"
)

type MerchantHandler struct {
	service  *service.MerchantService
	validate *validation.Validator
}

func NewMerchantHandler(service *service.MerchantService, validate *validation.Validator) *MerchantHandler {
	return &MerchantHandler{service: service, validate: validate}
}

func (h *MerchantHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.MerchantFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Status: strings.ToUpper(strings.TrimSpace(q.Get("status"))),
	}
	if err := h.validate.Check(filter); err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.service.List(r.Context(), currentSession(r), filter, normalize.ParsePageRequest(q))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *MerchantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateMerchantRequest
	if err := bind(w, r, h.validate, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	merchant, err := h.service.Create(r.Context(), currentSession(r), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, merchant)
}

func (h *MerchantHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Lookup(r.Context(), currentSession(r), strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *MerchantHandler) Get(w http.ResponseWriter, r *http.Request) {
	merchant, err := h.service.Get(r.Context(), currentSession(r), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, merchant)
}

func (h *MerchantHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateMerchantRequest
	if err := bind(w, r, h.validate, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	merchant, err := h.service.Update(r.Context(), currentSession(r), chi.URLParam(r, "uid"), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, merchant)
}

func (h *MerchantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Delete(r.Context(), currentSession(r), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *MerchantHandler) BankAccounts(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.BankAccounts(r.Context(), currentSession(r), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *MerchantHandler) CreateBankAccount(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateBankAccountRequest
	if err := bind(w, r, h.validate, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := h.service.CreateBankAccount(r.Context(), currentSession(r), chi.URLParam(r, "uid"), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

func (h *MerchantHandler) APIKeys(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.APIKeys(r.Context(), currentSession(r), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *MerchantHandler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateAPIKeyRequest
	if err := bind(w, r, h.validate, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	key, err := h.service.CreateAPIKey(r.Context(), currentSession(r), chi.URLParam(r, "uid"), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, key)
}

func (h *MerchantHandler) RevokeAPIKey(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.RevokeAPIKey(r.Context(), currentSession(r), chi.URLParam(r, "uid"), chi.URLParam(r, "apiKey"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *MerchantHandler) SubMerchants(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.SubMerchants(r.Context(), currentSession(r), chi.URLParam(r, "uid"), normalize.ParsePageRequest(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *MerchantHandler) UpdateParent(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateParentRequest
	if err := bind(w, r, h.validate, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	merchant, err := h.service.UpdateParent(r.Context(), currentSession(r), chi.URLParam(r, "uid"), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, merchant)
}

func (h *MerchantHandler) Activity(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Activity(r.Context(), currentSession(r), chi.URLParam(r, "uid"), normalize.ParsePageRequest(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}
