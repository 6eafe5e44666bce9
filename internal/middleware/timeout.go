package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"paygate-console/internal/model"
)

const defaultRequestTimeout = 30 * time.Second

// Timeout buffers the response and replaces it with a JSON 503 once timeout
// elapses. Export and event routes must not sit behind it.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	body, _ := json.Marshal(model.ErrorResponse{Error: "Request timed out", Code: "REQUEST_TIMEOUT"})

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, string(body))
	}
}
