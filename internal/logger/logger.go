package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

const (
	requestIDKey = "request_id"
	redacted     = "[REDACTED]"
)

var sensitiveKeys = map[string]struct{}{
	"token":         {},
	"refresh_token": {},
	"refreshtoken":  {},
	"access_token":  {},
	"password":      {},
	"new_password":  {},
	"cookie":        {},
	"set-cookie":    {},
	"authorization": {},
	"secret":        {},
}

type requestIDContextKey struct{}

// New builds the process logger. format is "pretty" or "json".
func New(w io.Writer, format string, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level), ReplaceAttr: Redact}

	if strings.EqualFold(format, "json") {
		return slog.New(&contextHandler{Handler: slog.NewJSONHandler(w, opts)})
	}

	return slog.New(NewPrettyHandler(w, opts))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Redact masks credential-bearing attributes. It has the slog ReplaceAttr
// signature so the JSON handler can use it directly.
func Redact(_ []string, a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}
	return a
}

func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}

// contextHandler adds the request id carried by ctx to JSON records.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RequestID(ctx); id != "" {
		r.AddAttrs(slog.String(requestIDKey, id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}
