//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRPCLoginAndBatch(t *testing.T) {
	upstream := newFakeUpstream(t, map[string]http.HandlerFunc{
		"GET /dashboard/stats": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"totalVolume":1500.5,"transactionCount":4}}`))
		},
	})
	server := newConsoleServer(t, testConfig(t, upstream.URL))
	browser := newBrowser(t)

	resp := postJSON(t, browser, server.URL+"/api/trpc/auth.login", map[string]string{"username": "ops", "password": "secret"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	input := url.QueryEscape(`{"0":null,"1":null}`)
	resp = get(t, browser, server.URL+"/api/trpc/auth.me,dashboard.stats?batch=1&input="+input)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var results []struct {
		Result *struct {
			Data map[string]any `json:"data"`
		} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
	require.Len(t, results, 2)
	require.Equal(t, "1", results[0].Result.Data["user_id"])
	require.Equal(t, "1500.5", results[1].Result.Data["total_volume"])
}

func TestRPCWithoutSession(t *testing.T) {
	upstream := newFakeUpstream(t, nil)
	server := newConsoleServer(t, testConfig(t, upstream.URL))

	resp := get(t, newBrowser(t), server.URL+"/api/trpc/dashboard.stats")
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var env struct {
		Error struct {
			Data struct {
				Code       string `json:"code"`
				HTTPStatus int    `json:"httpStatus"`
			} `json:"data"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.Equal(t, "UNAUTHORIZED", env.Error.Data.Code)
	require.Equal(t, http.StatusUnauthorized, env.Error.Data.HTTPStatus)
	require.Empty(t, upstream.Calls())
}
