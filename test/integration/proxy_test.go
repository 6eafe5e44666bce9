//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"paygate-console/internal/model"
)

func TestRolesPaginationEndToEnd(t *testing.T) {
	upstream := newFakeUpstream(t, map[string]http.HandlerFunc{
		"GET /roles": func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "0", r.URL.Query().Get("page"))
			require.Equal(t, "15", r.URL.Query().Get("size"))
			items := make([]string, 0, 15)
			for i := range 15 {
				items = append(items, fmt.Sprintf(`{"id":%d,"name":"ROLE_%d"}`, i+1, i+1))
			}
			_, _ = fmt.Fprintf(w, `{"data":[%s],"pageNumber":0,"pageSize":15,"totalElements":42,"totalPages":3,"last":false}`, strings.Join(items, ","))
		},
	})
	server := newConsoleServer(t, testConfig(t, upstream.URL))
	browser := newBrowser(t)
	login(t, browser, server.URL)

	resp := get(t, browser, server.URL+"/api/roles?page=1&per_page=15")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page model.PaginatedResponse[model.Role]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.Len(t, page.Data, 15)
	require.Equal(t, 1, page.PageNumber)
	require.Equal(t, 15, page.PageSize)
	require.EqualValues(t, 42, page.TotalElements)
	require.Equal(t, 3, page.TotalPages)
	require.True(t, page.First)
	require.False(t, page.Last)
}

func TestRetryWithoutSessionNeverReachesUpstream(t *testing.T) {
	upstream := newFakeUpstream(t, nil)
	server := newConsoleServer(t, testConfig(t, upstream.URL))

	resp := postJSON(t, newBrowser(t), server.URL+"/api/disbursements/55/retry", map[string]string{})
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"error":"Unauthorized","code":"UNAUTHORIZED"}`, string(body))
	require.Empty(t, upstream.Calls())
}

func TestCanUpdateRejectsNonNumericID(t *testing.T) {
	upstream := newFakeUpstream(t, nil)
	server := newConsoleServer(t, testConfig(t, upstream.URL))
	browser := newBrowser(t)
	login(t, browser, server.URL)

	resp := get(t, browser, server.URL+"/api/transactions/abc/can-update")
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, []string{"POST /auth/login"}, upstream.Calls())
}

func TestUpstreamStatusPassesThrough(t *testing.T) {
	upstream := newFakeUpstream(t, map[string]http.HandlerFunc{
		"POST /disbursements/{id}/retry": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"Disbursement already settled"}`))
		},
	})
	server := newConsoleServer(t, testConfig(t, upstream.URL))
	browser := newBrowser(t)
	login(t, browser, server.URL)

	resp := postJSON(t, browser, server.URL+"/api/disbursements/55/retry", map[string]string{"reason": "again"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var body model.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "Disbursement already settled", body.Error)
}

func TestDisbursementExportStreamsFile(t *testing.T) {
	upstream := newFakeUpstream(t, map[string]http.HandlerFunc{
		"POST /disbursements/export": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "CSV", body["format"])
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write([]byte("reference,amount\nD-1,50.00\n"))
		},
	})
	server := newConsoleServer(t, testConfig(t, upstream.URL))
	browser := newBrowser(t)
	login(t, browser, server.URL)

	resp := postJSON(t, browser, server.URL+"/api/disbursements/export", map[string]any{"format": "csv"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	require.Regexp(t, `^attachment; filename="disbursements_export_\d{8}_\d{6}\.csv"$`, resp.Header.Get("Content-Disposition"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "reference,amount\nD-1,50.00\n", string(body))
}

func TestUnknownAPIRouteIsJSON404(t *testing.T) {
	upstream := newFakeUpstream(t, nil)
	server := newConsoleServer(t, testConfig(t, upstream.URL))

	resp := get(t, newBrowser(t), server.URL+"/api/nope")
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}
