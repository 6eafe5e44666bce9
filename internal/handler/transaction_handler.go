package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"paygate-console/internal/model"
	"paygate-console/internal/normalize"
	"paygate-console/internal/service"
	"paygate-console/internal/validation"
)

type TransactionHandler struct {
	service  *service.TransactionService
	validate *validation.Validator
}

func NewTransactionHandler(service *service.TransactionService, validate *validation.Validator) *TransactionHandler {
	return &TransactionHandler{service: service, validate: validate}
}

// searchRequest is the body of POST /api/transactions and /search. Paging
// may come in the body or the query string.
type searchRequest struct {
	Filters model.TransactionFilter `json:"filters"`
	Page    int                     `json:"page" validate:"gte=0"`
	PerPage int                     `json:"per_page" validate:"gte=0,lte=100"`
}

func transactionFilterFrom(q url.Values) model.TransactionFilter {
	f := model.TransactionFilter{
		Status:     q.Get("status"),
		MerchantID: q.Get("merchant_id"),
		Reference:  q.Get("reference"),
		Gateway:    q.Get("gateway"),
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
	}
	f.Normalize()
	return f
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := transactionFilterFrom(q)
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

func (h *TransactionHandler) Search(w http.ResponseWriter, r *http.Request) {
	var payload searchRequest
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

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.service.Get(r.Context(), currentSession(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var payload model.ActionRequest
	if err := bind(w, r, h.validate, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.service.Complete(r.Context(), currentSession(r), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *TransactionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var payload model.ActionRequest
	if err := bind(w, r, h.validate, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.service.Cancel(r.Context(), currentSession(r), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *TransactionHandler) Refund(w http.ResponseWriter, r *http.Request) {
	var payload model.RefundRequest
	if err := bind(w, r, h.validate, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.service.Refund(r.Context(), currentSession(r), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *TransactionHandler) ProcessingHistory(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ProcessingHistory(r.Context(), currentSession(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *TransactionHandler) CanUpdate(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CanUpdate(r.Context(), currentSession(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *TransactionHandler) Export(w http.ResponseWriter, r *http.Request) {
	var payload model.ExportRequest
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

// pageFromBody prefers body paging over the query string.
func pageFromBody(q url.Values, page int, perPage int) normalize.PageRequest {
	req := normalize.ParsePageRequest(q)
	if page > 0 {
		req.Page = page
	}
	if perPage > 0 {
		req.PerPage = min(perPage, normalize.MaxPageSize)
	}
	return req
}
