//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"paygate-console/internal/model"
)

func TestLoginMeLogout(t *testing.T) {
	upstream := newFakeUpstream(t, nil)
	server := newConsoleServer(t, testConfig(t, upstream.URL))
	browser := newBrowser(t)

	login(t, browser, server.URL)

	resp := get(t, browser, server.URL+"/api/auth/me")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user model.SessionUser
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	require.Equal(t, "1", user.UserID)
	require.Equal(t, "/admin/dashboard", user.LandingPage)

	logout := postJSON(t, browser, server.URL+"/api/auth/logout", nil)
	defer logout.Body.Close()
	require.Equal(t, http.StatusOK, logout.StatusCode)
	require.Contains(t, upstream.Calls(), "POST /auth/logout")

	after := get(t, browser, server.URL+"/api/auth/me")
	defer after.Body.Close()
	require.Equal(t, http.StatusUnauthorized, after.StatusCode)
}

func TestLoginPropagatesUpstreamRejection(t *testing.T) {
	upstream := newFakeUpstream(t, nil)
	server := newConsoleServer(t, testConfig(t, upstream.URL))

	resp := postJSON(t, newBrowser(t), server.URL+"/api/auth/login", map[string]string{"username": "ops", "password": "wrong"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body model.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "Bad credentials", body.Error)
	require.Empty(t, resp.Cookies())
}

func TestGuardRedirects(t *testing.T) {
	upstream := newFakeUpstream(t, nil)
	server := newConsoleServer(t, testConfig(t, upstream.URL))
	browser := newBrowser(t)

	resp := get(t, browser, server.URL+"/admin/merchants")
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/login?from=%2Fadmin%2Fmerchants", resp.Header.Get("Location"))

	login(t, browser, server.URL)

	resp = get(t, browser, server.URL+"/admin/merchants")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, browser, server.URL+"/merchant/dashboard")
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin/dashboard", resp.Header.Get("Location"))
}
