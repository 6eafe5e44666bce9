package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Error is a non-2xx answer from the upstream API.
type Error struct {
	Status  int
	Message string
	Body    []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Message)
}

// AsError unwraps an upstream *Error from err.
func AsError(err error) (*Error, bool) {
	var upstreamErr *Error
	if errors.As(err, &upstreamErr) {
		return upstreamErr, true
	}
	return nil, false
}

func newError(status int, body []byte) *Error {
	return &Error{Status: status, Message: extractMessage(status, body), Body: body}
}

const maxRawMessage = 500

// extractMessage picks the most useful message from an error body: a JSON
// message/error/detail/errors[0] field, then the raw text, then a fallback.
func extractMessage(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))

	var parsed map[string]any
	if trimmed != "" && json.Unmarshal([]byte(trimmed), &parsed) == nil {
		for _, key := range []string{"message", "error", "detail", "error_description"} {
			if msg := messageFrom(parsed[key]); msg != "" {
				return msg
			}
		}
		if list, ok := parsed["errors"].([]any); ok && len(list) > 0 {
			if msg := messageFrom(list[0]); msg != "" {
				return msg
			}
		}
		return fallbackMessage(status)
	}

	if trimmed != "" && !strings.HasPrefix(trimmed, "<") {
		if len(trimmed) > maxRawMessage {
			trimmed = trimmed[:maxRawMessage]
		}
		return trimmed
	}

	return fallbackMessage(status)
}

func messageFrom(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case map[string]any:
		for _, key := range []string{"message", "defaultMessage", "detail"} {
			if s, ok := value[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func fallbackMessage(status int) string {
	return fmt.Sprintf("Upstream request failed with status %d", status)
}
