package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"paygate-console/internal/model"
	"paygate-console/internal/normalize"
	"paygate-console/internal/upstream"
	"paygate-console/internal/validation"
	"paygate-console/pkg/apierror"
)

const maxRequestBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// ErrorStatus maps any error to the status and body sent to the browser.
// Upstream failures keep their status; anything unclassified becomes a
// logged 500.
func ErrorStatus(ctx context.Context, err error) (int, model.ErrorResponse) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus, model.ErrorResponse{Error: apiErr.Message, Code: apiErr.Code, Details: apiErr.Details}
	}

	if upstreamErr, ok := upstream.AsError(err); ok {
		slog.WarnContext(ctx, "upstream request failed", "status", upstreamErr.Status, "message", upstreamErr.Message)
		return upstreamErr.Status, model.ErrorResponse{Error: upstreamErr.Message, Code: "UPSTREAM_ERROR"}
	}

	if errors.Is(err, normalize.ErrUnrecognizedShape) {
		slog.ErrorContext(ctx, "unexpected upstream payload", "error", err)
		return http.StatusBadGateway, model.ErrorResponse{Error: "Unexpected response from payment service", Code: "UPSTREAM_INVALID_RESPONSE"}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		slog.WarnContext(ctx, "request deadline exceeded", "error", err)
		return http.StatusGatewayTimeout, model.ErrorResponse{Error: "Payment service did not respond in time", Code: "UPSTREAM_TIMEOUT"}
	}

	slog.ErrorContext(ctx, "unhandled error", "error", err)
	return http.StatusInternalServerError, model.ErrorResponse{Error: "Internal server error", Code: "INTERNAL_ERROR"}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := ErrorStatus(r.Context(), err)
	writeJSON(w, status, body)
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apierror.New("PAYLOAD_TOO_LARGE", "Request body too large", nil, http.StatusRequestEntityTooLarge)
	}
	return apierror.BadRequest("Invalid JSON body", nil)
}

// bind decodes and validates a request body.
func bind(w http.ResponseWriter, r *http.Request, v *validation.Validator, dst any) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	return v.Check(dst)
}

func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "Not found", Code: "NOT_FOUND"})
}

func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Error: "Method not allowed", Code: "METHOD_NOT_ALLOWED"})
}
