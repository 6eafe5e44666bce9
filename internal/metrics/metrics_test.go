package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygate-console/internal/event"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Post("/api/disbursements/{id}/retry", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	for _, id := range []string{"55", "56"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/disbursements/"+id+"/retry", nil))
		require.Equal(t, http.StatusConflict, rec.Code)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	body := scrape(t, m)
	assert.Contains(t, body, `paygate_console_http_requests_total{method="POST",route="/api/disbursements/{id}/retry",status="409"} 2`)
	assert.Contains(t, body, `route="unmatched",status="404"`)
	assert.NotContains(t, body, `/api/disbursements/55/retry`)
}

func TestInstrumentUpstreamObservesCalls(t *testing.T) {
	m := New()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer upstream.Close()

	client := &http.Client{Transport: m.InstrumentUpstream(nil)}
	resp, err := client.Get(upstream.URL)
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	assert.Contains(t, scrape(t, m), `paygate_console_upstream_request_duration_seconds_count{code="202",method="get"} 1`)
}

func TestCountEvents(t *testing.T) {
	m := New()
	bus := event.NewBus()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.CountEvents(ctx, bus)
		close(done)
	}()

	require.Eventually(t, func() bool { return bus.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	bus.Publish(event.New(event.TypeDisbursementRetried, "disbursements", "55", "1"))

	require.Eventually(t, func() bool {
		return strings.Contains(scrape(t, m), `paygate_console_events_published_total{type="disbursement.retried"} 1`)
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
