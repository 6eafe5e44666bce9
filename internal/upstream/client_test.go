package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygate-console/internal/logger"
)

func TestDoJSONForwardsTokenQueryAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/transactions/search", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-9", r.Header.Get("X-Request-ID"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "FAILED", body["status"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := New(server.URL+"/api/v1/", 5*time.Second)
	ctx := logger.WithRequestID(context.Background(), "req-9")

	raw, err := client.DoJSON(ctx, Request{
		Method: http.MethodPost,
		Path:   PathTransactionSearch,
		Query:  url.Values{"page": {"2"}},
		Body:   map[string]string{"status": "FAILED"},
		Token:  "tok",
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"data":[]}`, string(raw))
}

func TestDoJSONEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	raw, err := New(server.URL, 0).DoJSON(context.Background(), Request{Path: "/x"})
	require.NoError(t, err)
	require.Nil(t, raw)
}

func TestDoJSONInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := New(server.URL, 0).DoJSON(context.Background(), Request{Path: "/x"})
	require.Error(t, err)
	_, isUpstream := AsError(err)
	require.False(t, isUpstream)
}

func TestDoJSONPropagatesUpstreamError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"json message", http.StatusConflict, `{"message":"Disbursement already completed"}`, "Disbursement already completed"},
		{"json error", http.StatusBadRequest, `{"error":"Invalid merchant"}`, "Invalid merchant"},
		{"json detail", http.StatusUnprocessableEntity, `{"detail":"Amount exceeds limit"}`, "Amount exceeds limit"},
		{"json errors list", http.StatusBadRequest, `{"errors":[{"defaultMessage":"must not be blank"}]}`, "must not be blank"},
		{"json without message", http.StatusNotFound, `{"status":404}`, "Upstream request failed with status 404"},
		{"raw text", http.StatusBadGateway, "gateway offline", "gateway offline"},
		{"html page", http.StatusServiceUnavailable, "<html>down</html>", "Upstream request failed with status 503"},
		{"empty body", http.StatusForbidden, "", "Upstream request failed with status 403"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := New(server.URL, 0).DoJSON(context.Background(), Request{Path: "/x"})
			upstreamErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, upstreamErr.Status)
			assert.Equal(t, tt.message, upstreamErr.Message)
		})
	}
}

func TestStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "*/*", r.Header.Get("Accept"))
		if r.URL.Query().Get("fail") == "1" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"export failed"}`))
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("id,amount\n1,10.00\n"))
	}))
	defer server.Close()

	client := New(server.URL, 0)

	resp, err := client.Stream(context.Background(), Request{Method: http.MethodPost, Path: PathTransactionExport})
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "id,amount\n1,10.00\n", string(data))

	_, err = client.Stream(context.Background(), Request{Path: PathTransactionExport, Query: url.Values{"fail": {"1"}}})
	upstreamErr, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, "export failed", upstreamErr.Message)
}

func TestNetworkFailureIsNotUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	_, err := New(server.URL, time.Second).DoJSON(context.Background(), Request{Path: "/x"})
	require.Error(t, err)
	_, ok := AsError(err)
	require.False(t, ok)
}

func TestPath(t *testing.T) {
	assert.Equal(t, "/merchants/abc/api-keys/k%2F1", Path(PathMerchantAPIKey, "abc", "k/1"))
	assert.Equal(t, "/transactions/12/refund", Path(PathTransactionAction, "12", "refund"))
	assert.Equal(t, "/roles/", Path(PathRole))
	assert.Equal(t, "/roles", Path(PathRoles, "ignored"))
}
