package rpc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"paygate-console/internal/access"
	"paygate-console/internal/model"
	"paygate-console/internal/rbac"
	"paygate-console/internal/service"
	"paygate-console/internal/session"
	"paygate-console/internal/upstream"
	"paygate-console/internal/validation"
)

type testEnv struct {
	api      *upstream.MockCaller
	sessions *session.Manager
	router   *Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	codec, err := session.NewCodec("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	api := new(upstream.MockCaller)
	table := rbac.NewTable(rbac.DefaultRoles())
	policy := access.NewPolicy(access.DefaultConfig(), table)
	sessions := session.NewManager(codec, "session", false)

	router := NewRouter(sessions, table, validation.New())
	router.Register(Procedures(Services{
		Auth:          service.NewAuthService(api, nil, policy, table),
		Dashboard:     service.NewDashboardService(api, nil, "NGN"),
		Users:         service.NewUserService(api, nil),
		Disbursements: service.NewDisbursementService(api, nil, "NGN"),
		Sessions:      sessions,
	})...)

	return &testEnv{api: api, sessions: sessions, router: router}
}

func (e *testEnv) withSession(t *testing.T, req *http.Request, roles ...string) {
	t.Helper()

	rec := httptest.NewRecorder()
	_, err := e.sessions.Create(rec, model.Session{UserID: "9", Token: "upstream-token", Roles: roles})
	require.NoError(t, err)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func queryURL(name string, input string) string {
	if input == "" {
		return "/api/trpc/" + name
	}
	return "/api/trpc/" + name + "?input=" + url.QueryEscape(input)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestUnknownProcedureIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(httptest.NewRequest(http.MethodGet, queryURL("nope.list", ""), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeEnvelope(t, rec)
	require.Nil(t, body.Result)
	require.Equal(t, -32004, body.Error.Code)
	require.Equal(t, "NOT_FOUND", body.Error.Data.Code)
	require.Equal(t, "nope.list", body.Error.Data.Path)
}

func TestQueryRejectsPost(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, queryURL("auth.me", ""), nil)
	env.withSession(t, req, rbac.RoleAdmin)

	rec := env.serve(req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "METHOD_NOT_SUPPORTED", decodeEnvelope(t, rec).Error.Data.Code)
}

func TestProtectedProcedureWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(httptest.NewRequest(http.MethodPost, queryURL("disbursements.retry", ""), strings.NewReader(`{"id":"55"}`)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "UNAUTHORIZED", decodeEnvelope(t, rec).Error.Data.Code)
	env.api.AssertNotCalled(t, "DoJSON", mock.Anything, mock.Anything)
}

func TestProcedurePermissionDenied(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, queryURL("disbursements.retry", ""), strings.NewReader(`{"id":"55"}`))
	env.withSession(t, req, rbac.RoleSupport)

	rec := env.serve(req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, -32003, decodeEnvelope(t, rec).Error.Code)
	env.api.AssertNotCalled(t, "DoJSON", mock.Anything, mock.Anything)
}

func TestDisbursementRetry(t *testing.T) {
	env := newTestEnv(t)
	env.api.On("DoJSON", mock.Anything, mock.MatchedBy(func(req upstream.Request) bool {
		return req.Method == http.MethodPost && req.Path == "/disbursements/55/retry" && req.Token == "upstream-token"
	})).Return(json.RawMessage(`{"message":"queued"}`), nil).Once()

	req := httptest.NewRequest(http.MethodPost, queryURL("disbursements.retry", ""), strings.NewReader(`{"id":"55","reason":"bank timeout"}`))
	env.withSession(t, req, rbac.RoleFinance)

	rec := env.serve(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Result struct {
			Data model.ActionResult `json:"data"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Result.Data.Success)
	require.Equal(t, "queued", body.Result.Data.Message)
	env.api.AssertExpectations(t)
}

func TestInvalidInputIsBadRequest(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, queryURL("disbursements.retry", ""), strings.NewReader(`{"reason":"x"}`))
	env.withSession(t, req, rbac.RoleFinance)

	rec := env.serve(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeEnvelope(t, rec)
	require.Equal(t, "BAD_REQUEST", body.Error.Data.Code)
	require.NotNil(t, body.Error.Data.Details)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	env.api.On("Login", mock.Anything, "ops", "secret").Return(json.RawMessage(`{
		"accessToken": "tok-1",
		"user": {"id": 3, "username": "ops", "roles": ["OPERATIONS"]}
	}`), nil).Once()

	rec := env.serve(httptest.NewRequest(http.MethodPost, queryURL("auth.login", ""), strings.NewReader(`{"username":"ops","password":"secret"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "session", cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)

	var body struct {
		Result struct {
			Data model.SessionUser `json:"data"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "3", body.Result.Data.UserID)
	require.Equal(t, "/admin/dashboard", body.Result.Data.LandingPage)
	require.Contains(t, body.Result.Data.Permissions, string(rbac.PermissionDisbursementsWrite))
	require.NotContains(t, rec.Body.String(), "tok-1")
}

func TestBatchMixesResults(t *testing.T) {
	env := newTestEnv(t)

	input := `{"0":null,"1":null}`
	req := httptest.NewRequest(http.MethodGet, "/api/trpc/auth.me,nope.list?batch=1&input="+url.QueryEscape(input), nil)
	env.withSession(t, req, rbac.RoleAuditor)

	rec := env.serve(req)
	require.Equal(t, http.StatusMultiStatus, rec.Code)

	var body []Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	require.NotNil(t, body[0].Result)
	require.Nil(t, body[0].Error)
	require.Equal(t, "NOT_FOUND", body[1].Error.Data.Code)
}

func TestMultipleProceduresRequireBatch(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(httptest.NewRequest(http.MethodGet, "/api/trpc/auth.me,dashboard.stats", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsersListPassesPaging(t *testing.T) {
	env := newTestEnv(t)
	env.api.On("DoJSON", mock.Anything, mock.MatchedBy(func(req upstream.Request) bool {
		return req.Path == upstream.PathUsers && req.Query.Get("page") == "1" && req.Query.Get("size") == "5" && req.Query.Get("search") == "ada"
	})).Return(json.RawMessage(`{"content":[{"id":1,"username":"ada"}],"number":1,"size":5,"totalElements":6,"totalPages":2}`), nil).Once()

	req := httptest.NewRequest(http.MethodGet, queryURL("users.list", `{"page":2,"per_page":5,"search":"ada"}`), nil)
	env.withSession(t, req, rbac.RoleAdmin)

	rec := env.serve(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Result struct {
			Data model.PaginatedResponse[model.ConsoleUser] `json:"data"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Result.Data.Data, 1)
	require.Equal(t, "ada", body.Result.Data.Data[0].Username)
	env.api.AssertExpectations(t)
}

func TestPanickingProcedureIsInternalError(t *testing.T) {
	env := newTestEnv(t)
	env.router.Register(Procedure{
		Name:   "debug.panic",
		Kind:   Query,
		Public: true,
		Handle: func(*Call) (any, error) { panic("boom") },
	})

	rec := env.serve(httptest.NewRequest(http.MethodGet, queryURL("debug.panic", ""), nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "INTERNAL_SERVER_ERROR", decodeEnvelope(t, rec).Error.Data.Code)
}
