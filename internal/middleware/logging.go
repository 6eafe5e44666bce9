package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"paygate-console/internal/logger"
	"paygate-console/internal/model"
)

const (
	requestIDHeader = "X-Request-ID"
	// error bodies larger than this are not inspected
	maxCapturedErrorBody = 4 << 10
)

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)
		r = r.WithContext(logger.WithRequestID(r.Context(), requestID))

		started := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"bytes", wrapped.written,
			"duration_ms", time.Since(started).Milliseconds(),
			"client_ip", extractClientIP(r),
		}

		if wrapped.status >= 400 && r.URL.RawQuery != "" {
			attrs = append(attrs, "query", r.URL.RawQuery)
		}

		if wrapped.status >= 400 && wrapped.body.Len() > 0 && !wrapped.truncated {
			var parsed model.ErrorResponse
			if err := json.Unmarshal(wrapped.body.Bytes(), &parsed); err == nil && parsed.Error != "" {
				attrs = append(attrs, "error_code", parsed.Code)
				attrs = append(attrs, "error_message", parsed.Error)
				if parsed.Details != nil {
					attrs = append(attrs, "error_details", parsed.Details)
				}
			}
		}

		ctx := r.Context()
		switch {
		case wrapped.status >= 500:
			slog.ErrorContext(ctx, "request", attrs...)
		case wrapped.status >= 400:
			slog.WarnContext(ctx, "request", attrs...)
		default:
			slog.InfoContext(ctx, "request", attrs...)
		}
	})
}

type responseWriter struct {
	http.ResponseWriter
	status      int
	written     int64
	body        bytes.Buffer
	truncated   bool
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if rw.wroteHeader {
		return
	}
	rw.status = statusCode
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.status >= 400 && !rw.truncated {
		if rw.body.Len()+len(b) > maxCapturedErrorBody {
			rw.truncated = true
			rw.body.Reset()
		} else {
			rw.body.Write(b)
		}
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
