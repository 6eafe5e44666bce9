//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"paygate-console/internal/app"
	"paygate-console/internal/config"
)

// fakeUpstream stands in for the payment API and records every call.
type fakeUpstream struct {
	*httptest.Server

	mu    sync.Mutex
	calls []string
}

func (f *fakeUpstream) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
}

func (f *fakeUpstream) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newFakeUpstream(t *testing.T, routes map[string]http.HandlerFunc) *fakeUpstream {
	t.Helper()

	f := &fakeUpstream{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"accessToken":"upstream-token","user":{"id":1,"username":"` + body["username"] + `","roles":["ADMIN"]}}`))
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if r.URL.Path != "/auth/login" && r.Header.Get("Authorization") != "Bearer upstream-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func testConfig(t *testing.T, upstreamURL string) *config.Config {
	t.Helper()

	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>console</html>"), 0o644))

	return &config.Config{
		ServerPort:        "0",
		RequestTimeout:    5 * time.Second,
		ExportMaxDuration: 10 * time.Second,
		ExportIdleTimeout: 5 * time.Second,
		UpstreamBaseURL:   upstreamURL,
		UpstreamTimeout:   5 * time.Second,
		SessionSecret:     "0123456789abcdef0123456789abcdef",
		SessionTTL:        time.Hour,
		SessionCookieName: "session",
		Environment:       "test",
		RateLimitRPM:      1000,
		AuthRateLimitRPM:  1000,
		StaticDir:         static,
		DefaultCurrency:   "NGN",
		LogFormat:         "json",
		LogLevel:          "error",
	}
}

func newConsoleServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	root, cleanup, err := app.Build(cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	server := httptest.NewServer(root)
	t.Cleanup(server.Close)
	return server
}

// newBrowser returns a client that keeps cookies and does not follow
// redirects, so guard decisions are visible.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func login(t *testing.T, browser *http.Client, serverURL string) {
	t.Helper()

	resp := postJSON(t, browser, serverURL+"/api/auth/login", map[string]string{"username": "ops", "password": "secret"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func postJSON(t *testing.T, client *http.Client, url string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, client *http.Client, url string) *http.Response {
	t.Helper()

	resp, err := client.Get(url)
	require.NoError(t, err)
	return resp
}
