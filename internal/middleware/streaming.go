package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// ExportTimeout bounds report downloads without buffering them the way
// http.TimeoutHandler does. maxDuration caps the whole export. idleTimeout
// aborts an export whose upstream stops producing bytes.
func ExportTimeout(maxDuration, idleTimeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), maxDuration)
			defer cancel()

			rc := http.NewResponseController(w)
			deadline := time.Now().Add(maxDuration)
			_ = rc.SetWriteDeadline(deadline)
			_ = rc.SetReadDeadline(deadline)

			ew := &exportWriter{ResponseWriter: w, rc: rc, idle: idleTimeout, cancel: cancel}
			ew.touch()

			next.ServeHTTP(ew, r.WithContext(ctx))

			if stalled, written := ew.finish(); stalled {
				slog.WarnContext(ctx, "export aborted after idle timeout",
					"path", r.URL.Path,
					"bytes_written", written,
					"idle_timeout", idleTimeout,
				)
			}
		})
	}
}

type exportWriter struct {
	http.ResponseWriter
	rc     *http.ResponseController
	idle   time.Duration
	cancel context.CancelFunc

	mu      sync.Mutex
	timer   *time.Timer
	written int64
	stalled bool
}

func (ew *exportWriter) touch() {
	ew.mu.Lock()
	defer ew.mu.Unlock()

	if ew.timer != nil {
		ew.timer.Stop()
	}

	ew.timer = time.AfterFunc(ew.idle, func() {
		ew.mu.Lock()
		ew.stalled = true
		ew.mu.Unlock()

		_ = ew.rc.SetWriteDeadline(time.Now())
		ew.cancel()
	})
}

func (ew *exportWriter) finish() (bool, int64) {
	ew.mu.Lock()
	defer ew.mu.Unlock()

	if ew.timer != nil {
		ew.timer.Stop()
	}

	return ew.stalled, ew.written
}

func (ew *exportWriter) Write(b []byte) (int, error) {
	ew.touch()
	n, err := ew.ResponseWriter.Write(b)

	ew.mu.Lock()
	ew.written += int64(n)
	ew.mu.Unlock()

	return n, err
}

func (ew *exportWriter) Unwrap() http.ResponseWriter {
	return ew.ResponseWriter
}

// Flush pushes each copied chunk to the browser as it arrives.
func (ew *exportWriter) Flush() {
	if f, ok := ew.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
