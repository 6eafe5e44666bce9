package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"paygate-console/internal/model"
	"paygate-console/internal/service"
	"paygate-console/internal/validation"
)

type GatewayHandler struct {
	service  *service.GatewayService
	validate *validation.Validator
}

func NewGatewayHandler(service *service.GatewayService, validate *validation.Validator) *GatewayHandler {
	return &GatewayHandler{service: service, validate: validate}
}

func (h *GatewayHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), currentSession(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *GatewayHandler) Get(w http.ResponseWriter, r *http.Request) {
	gateway, err := h.service.Get(r.Context(), currentSession(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, gateway)
}

func (h *GatewayHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateGatewayRequest
	if err := bind(w, r, h.validate, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	gateway, err := h.service.Create(r.Context(), currentSession(r), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, gateway)
}

func (h *GatewayHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateGatewayRequest
	if err := bind(w, r, h.validate, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	gateway, err := h.service.Update(r.Context(), currentSession(r), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, gateway)
}

func (h *GatewayHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var payload model.GatewayStatusRequest
	if err := bind(w, r, h.validate, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	gateway, err := h.service.SetStatus(r.Context(), currentSession(r), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, gateway)
}

func (h *GatewayHandler) Channels(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Channels(r.Context(), currentSession(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *GatewayHandler) CreateChannel(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateChannelRequest
	if err := bind(w, r, h.validate, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	channel, err := h.service.CreateChannel(r.Context(), currentSession(r), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, channel)
}

func (h *GatewayHandler) UpdateChannel(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateChannelRequest
	if err := bind(w, r, h.validate, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	channel, err := h.service.UpdateChannel(r.Context(), currentSession(r), chi.URLParam(r, "id"), chi.URLParam(r, "channelId"), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, channel)
}
