package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtplus/rtplus/internal/auth"
	"github.com/rtplus/rtplus/internal/config"
	"github.com/rtplus/rtplus/internal/monitoring"
	"github.com/rtplus/rtplus/internal/store"
)

type testEnv struct {
	srv   *Server
	store *store.Store
	auth  *auth.Manager
	org   *store.Organization
	me    *store.Person
	token string
}

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(nil) })

	st, err := store.Open(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := config.Default()
	cfg.SessionSecret = "test-secret"
	cfg.Auth.IssuerBaseURL = "https://id.example.com"
	cfg.Auth.ClientID = "client-1"

	am, err := auth.New(cfg)
	require.NoError(t, err)
	srv, err := New(cfg, st, am, WithoutRequestLog(), WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)

	ctx := context.Background()
	org, err := st.Organizations().Create(ctx, "Alpha Rescue", "alpha", false)
	require.NoError(t, err)
	me, err := st.People().Create(ctx, org.ID, store.NewPerson{Name: "Jane Doe", Email: "jane@example.com"})
	require.NoError(t, err)

	token, _, err := am.Issue(auth.Session{Subject: "idp|1", Email: "jane@example.com", Name: "Jane Doe"})
	require.NoError(t, err)

	return &testEnv{srv: srv, store: st, auth: am, org: org, me: me, token: token}
}

// do sends a request as the signed-in user. body, when non-nil, is sent as
// JSON.
func (e *testEnv) do(t *testing.T, method, target string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: e.token})
	resp, err := e.srv.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestPing(t *testing.T) {
	env := newTestEnv(t)
	resp, err := env.srv.App().Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", readBody(t, resp))
}

func TestAPI_RequiresSession(t *testing.T) {
	env := newTestEnv(t)
	for _, target := range []string{"/api/skills", "/api/capabilities", "/api/teams"} {
		resp, err := env.srv.App().Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, target)

		body := decode[ErrorResponse](t, resp)
		assert.Equal(t, "unauthorized", body.Error.Code)
	}
}

func TestAuthMe(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[DataResponse[auth.Session]](t, resp)
	assert.Equal(t, "jane@example.com", body.Data.Email)
}

func TestListEndpoints_EmptyDataArray(t *testing.T) {
	env := newTestEnv(t)
	for _, target := range []string{
		"/api/skills", "/api/capabilities", "/api/skill-groups",
		"/api/teams", "/api/assessments", "/api/skill-check-sessions",
	} {
		resp := env.do(t, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, target)
		assert.JSONEq(t, `{"data":[]}`, readBody(t, resp), target)
	}
}

func TestAPI_UnknownEndpoint(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[ErrorResponse](t, resp)
	assert.Equal(t, "not_found", body.Error.Code)
}

func TestTenantResolution(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	beta, err := env.store.Organizations().Create(ctx, "Beta", "beta", false)
	require.NoError(t, err)
	_, err = env.store.Catalogue().CreateCapability(ctx, beta.ID, store.Capability{Name: "Swiftwater"})
	require.NoError(t, err)

	// Not a member of beta yet.
	resp := env.do(t, http.MethodGet, "/api/capabilities?org=beta", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, err = env.store.People().Create(ctx, beta.ID, store.NewPerson{Name: "Jane Doe", Email: "jane@example.com"})
	require.NoError(t, err)

	resp = env.do(t, http.MethodGet, "/api/capabilities?org=beta", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[ListResponse[store.Capability]](t, resp)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Swiftwater", body.Data[0].Name)

	// The cookie picks the org when no query is given.
	req := httptest.NewRequest(http.MethodGet, "/api/capabilities", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: env.token})
	req.AddCookie(&http.Cookie{Name: orgCookie, Value: "beta"})
	resp, err = env.srv.App().Test(req, -1)
	require.NoError(t, err)
	body = decode[ListResponse[store.Capability]](t, resp)
	assert.Len(t, body.Data, 1)
}

func TestTenant_StaleOrgCookieFallsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other, err := env.store.Organizations().Create(ctx, "Other", "previous-users-org", false)
	require.NoError(t, err)
	_, err = env.store.Catalogue().CreateCapability(ctx, other.ID, store.Capability{Name: "Hidden"})
	require.NoError(t, err)
	_, err = env.store.Catalogue().CreateCapability(ctx, env.org.ID, store.Capability{Name: "Rope"})
	require.NoError(t, err)

	for _, slug := range []string{"previous-users-org", "no-such-org"} {
		t.Run(slug, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/capabilities", nil)
			req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: env.token})
			req.AddCookie(&http.Cookie{Name: orgCookie, Value: slug})
			resp, err := env.srv.App().Test(req, -1)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			body := decode[ListResponse[store.Capability]](t, resp)
			require.Len(t, body.Data, 1)
			assert.Equal(t, "Rope", body.Data[0].Name)
		})
	}

	// An explicit query for the same organization is still refused.
	resp := env.do(t, http.MethodGet, "/api/capabilities?org=previous-users-org", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestTenant_NoOrganization(t *testing.T) {
	env := newTestEnv(t)
	token, _, err := env.auth.Issue(auth.Session{Email: "stranger@example.com"})
	require.NoError(t, err)
	env.token = token

	resp := env.do(t, http.MethodGet, "/api/teams", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decode[ErrorResponse](t, resp)
	assert.Equal(t, "forbidden", body.Error.Code)
}
