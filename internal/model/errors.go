package model

import "errors"

var (
	// Session related errors
	ErrNoSession      = errors.New("no session")
	ErrSessionInvalid = errors.New("session invalid")

	// Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Input related errors
	ErrInvalidInput      = errors.New("invalid input")
	ErrNonNumericID      = errors.New("identifier must be numeric")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
