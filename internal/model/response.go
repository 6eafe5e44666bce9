package model

// ErrorResponse is the body of every failed proxy route response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// PaginatedResponse is the 1-based page envelope the console UI consumes.
type PaginatedResponse[T any] struct {
	Data          []T   `json:"data" validate:"dive"`
	PageNumber    int   `json:"pageNumber" validate:"gte=1"`
	PageSize      int   `json:"pageSize" validate:"gte=0"`
	TotalElements int64 `json:"totalElements" validate:"gte=0"`
	TotalPages    int   `json:"totalPages" validate:"gte=0"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// ListResponse wraps unpaginated collections.
type ListResponse[T any] struct {
	Data []T `json:"data" validate:"dive"`
}

type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}
