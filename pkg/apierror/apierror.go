package apierror

import (
	"fmt"
	"net/http"
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details any, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// Unauthorized is the error every proxy route returns when the session
// cookie is missing or does not decode.
func Unauthorized() *APIError {
	return New("UNAUTHORIZED", "Unauthorized", nil, http.StatusUnauthorized)
}

func Forbidden(message string) *APIError {
	if message == "" {
		message = "Forbidden"
	}
	return New("FORBIDDEN", message, nil, http.StatusForbidden)
}

func BadRequest(message string, details any) *APIError {
	return New("BAD_REQUEST", message, details, http.StatusBadRequest)
}

func Validation(fields any) *APIError {
	return New("VALIDATION_FAILED", "Invalid request data", fields, http.StatusBadRequest)
}

func Internal() *APIError {
	return New("INTERNAL_ERROR", "Internal server error", nil, http.StatusInternalServerError)
}
