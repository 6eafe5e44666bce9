package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeoutWritesJSONBody(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	rec := httptest.NewRecorder()
	Timeout(20*time.Millisecond)(slow).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/merchants", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"Request timed out","code":"REQUEST_TIMEOUT"}`, rec.Body.String())
}

func TestExportTimeoutCancelsStalledExport(t *testing.T) {
	var ctxErr error
	stalled := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("id,amount\n"))
		select {
		case <-r.Context().Done():
			ctxErr = r.Context().Err()
		case <-time.After(time.Second):
		}
	})

	rec := httptest.NewRecorder()
	ExportTimeout(time.Minute, 20*time.Millisecond)(stalled).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions/export", nil))

	require.ErrorIs(t, ctxErr, context.Canceled)
	assert.Equal(t, "id,amount\n", rec.Body.String())
}

func TestExportTimeoutKeepsActiveExportAlive(t *testing.T) {
	var ctxErr error
	active := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 5; i++ {
			_, _ = w.Write([]byte("row\n"))
			w.(http.Flusher).Flush()
			time.Sleep(10 * time.Millisecond)
		}
		ctxErr = r.Context().Err()
	})

	rec := httptest.NewRecorder()
	ExportTimeout(time.Minute, 200*time.Millisecond)(active).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/disbursements/export", nil))

	assert.NoError(t, ctxErr)
	assert.Equal(t, 5, len(rec.Body.String())/len("row\n"))
	assert.True(t, rec.Flushed)
}
