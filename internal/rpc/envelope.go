package rpc

import "net/http"

// Envelope is one procedure result in the tRPC wire format.
type Envelope struct {
	Result *Result     `json:"result,omitempty"`
	Error  *ErrorShape `json:"error,omitempty"`
}

type Result struct {
	Data any `json:"data"`
}

type ErrorShape struct {
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Data    ErrorData `json:"data"`
}

type ErrorData struct {
	Code       string `json:"code"`
	HTTPStatus int    `json:"httpStatus"`
	Path       string `json:"path,omitempty"`
	Details    any    `json:"details,omitempty"`
}

type errorCode struct {
	name string
	rpc  int
}

var (
	codeBadRequest       = errorCode{"BAD_REQUEST", -32600}
	codeInternal         = errorCode{"INTERNAL_SERVER_ERROR", -32603}
	codeUnauthorized     = errorCode{"UNAUTHORIZED", -32001}
	codeForbidden        = errorCode{"FORBIDDEN", -32003}
	codeNotFound         = errorCode{"NOT_FOUND", -32004}
	codeMethodNotAllowed = errorCode{"METHOD_NOT_SUPPORTED", -32005}
	codeTimeout          = errorCode{"TIMEOUT", -32008}
	codeConflict         = errorCode{"CONFLICT", -32009}
	codePrecondition     = errorCode{"PRECONDITION_FAILED", -32012}
	codeTooLarge         = errorCode{"PAYLOAD_TOO_LARGE", -32013}
	codeUnprocessable    = errorCode{"UNPROCESSABLE_CONTENT", -32022}
	codeTooManyRequests  = errorCode{"TOO_MANY_REQUESTS", -32029}
)

func codeForStatus(status int) errorCode {
	switch status {
	case http.StatusBadRequest:
		return codeBadRequest
	case http.StatusUnauthorized:
		return codeUnauthorized
	case http.StatusForbidden:
		return codeForbidden
	case http.StatusNotFound:
		return codeNotFound
	case http.StatusMethodNotAllowed:
		return codeMethodNotAllowed
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return codeTimeout
	case http.StatusConflict:
		return codeConflict
	case http.StatusPreconditionFailed:
		return codePrecondition
	case http.StatusRequestEntityTooLarge:
		return codeTooLarge
	case http.StatusUnprocessableEntity:
		return codeUnprocessable
	case http.StatusTooManyRequests:
		return codeTooManyRequests
	}
	if status >= 400 && status < 500 {
		return codeBadRequest
	}
	return codeInternal
}

func success(data any) Envelope {
	return Envelope{Result: &Result{Data: data}}
}

func failure(path string, status int, message string, details any) Envelope {
	code := codeForStatus(status)
	return Envelope{Error: &ErrorShape{
		Message: message,
		Code:    code.rpc,
		Data: ErrorData{
			Code:       code.name,
			HTTPStatus: status,
			Path:       path,
			Details:    details,
		},
	}}
}

func (e Envelope) status() int {
	if e.Error != nil {
		return e.Error.Data.HTTPStatus
	}
	return http.StatusOK
}
