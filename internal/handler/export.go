package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"paygate-console/internal/service"
	"paygate-console/internal/util"
)

// streamExport copies an upstream export to the browser without buffering.
func streamExport(w http.ResponseWriter, r *http.Request, file *service.ExportFile) {
	defer file.Body.Close()

	h := w.Header()
	h.Set("Content-Type", file.ContentType)
	h.Set("Content-Disposition", util.ContentDisposition(file.Filename))
	h.Set("Cache-Control", "no-store")
	if file.ContentLength > 0 {
		h.Set("Content-Length", strconv.FormatInt(file.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	written, err := copyFlushing(w, file.Body)
	if err != nil {
		slog.WarnContext(r.Context(), "export stream interrupted", "filename", file.Filename, "bytes", written, "error", err)
		return
	}
	slog.InfoContext(r.Context(), "export streamed", "filename", file.Filename, "bytes", written)
}

const exportChunkSize = 32 << 10

// copyFlushing writes src to w, flushing after every chunk.
func copyFlushing(w http.ResponseWriter, src io.Reader) (int64, error) {
	rc := http.NewResponseController(w)
	buf := make([]byte, exportChunkSize)

	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			m, err := w.Write(buf[:n])
			written += int64(m)
			if err != nil {
				return written, err
			}
			if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
				return written, err
			}
		}
		if errors.Is(readErr, io.EOF) {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
