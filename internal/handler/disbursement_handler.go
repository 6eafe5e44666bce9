package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"paygate-console/internal/model"
	"paygate-console/internal/normalize"
	"paygate-console/internal/service"
	"paygate-console/internal/validation"
)

type DisbursementHandler struct {
	service  *service.DisbursementService
	validate *validation.Validator
}

func NewDisbursementHandler(service *service.DisbursementService, validate *validation.Validator) *DisbursementHandler {
	return &DisbursementHandler{service: service, validate: validate}
}

type disbursementSearchRequest struct {
	Filters model.DisbursementFilter `json:"filters"`
	Page    int                      `json:"page" validate:"gte=0"`
	PerPage int                      `json:"per_page" validate:"gte=0,lte=100"`
}

func disbursementFilterFrom(q url.Values) model.DisbursementFilter {
	f := model.DisbursementFilter{
		Status:     q.Get("status"),
		MerchantID: q.Get("merchant_id"),
		Reference:  q.Get("reference"),
		Recipient:  q.Get("recipient"),
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
	}
	f.Normalize()
	return f
}

func (h *DisbursementHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := disbursementFilterFrom(q)
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

func (h *DisbursementHandler) Search(w http.ResponseWriter, r *http.Request) {
	var payload disbursementSearchRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	payload.Filters.Normalize()
	if err := h.validate.Check(payload); err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.service.Search(r.Context(), currentSession(r), payload.Filters, pageFromBody(r.URL.Query(), payload.Page, payload.PerPage))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *DisbursementHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), currentSession(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (h *DisbursementHandler) Retry(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.service.Retry)
}

func (h *DisbursementHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.service.Cancel)
}

func (h *DisbursementHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.service.Complete)
}

type disbursementAction func(ctx context.Context, sess *model.Session, id string, req model.ActionRequest) (model.ActionResult, error)

func (h *DisbursementHandler) act(w http.ResponseWriter, r *http.Request, run disbursementAction) {
	var payload model.ActionRequest
	if err := bind(w, r, h.validate, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := run(r.Context(), currentSession(r), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *DisbursementHandler) Export(w http.ResponseWriter, r *http.Request) {
	var payload model.DisbursementExportRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	payload.Filters.Normalize()
	if err := h.validate.Check(payload); err != nil {
		writeError(w, r, err)
		return
	}

	file, err := h.service.Export(r.Context(), currentSession(r), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	streamExport(w, r, file)
}

func (h *DisbursementHandler) Volume(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stats, err := h.service.Volume(r.Context(), currentSession(r), q.Get("from"), q.Get("to"), q.Get("interval"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
