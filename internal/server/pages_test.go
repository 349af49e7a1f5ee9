package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtplus/rtplus/internal/store"
)

func TestPages_RedirectToLogin(t *testing.T) {
	env := newTestEnv(t)
	resp, err := env.srv.App().Test(httptest.NewRequest(http.MethodGet, "/app/alpha/teams", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/api/auth/login?returnTo="+url.QueryEscape("/app/alpha/teams"), resp.Header.Get("Location"))
}

func TestPages_ChooseOrganization(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/app", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/app/alpha", resp.Header.Get("Location"))
}

func TestPages_Render(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	team, err := env.store.Teams().Create(ctx, env.org.ID, store.Team{Name: "Rescue One"})
	require.NoError(t, err)
	require.NoError(t, env.store.Teams().AddMember(ctx, env.org.ID, team.ID, env.me.ID, store.RoleLeader))
	capability, err := env.store.Catalogue().CreateCapability(ctx, env.org.ID, store.Capability{Name: "Rope Rescue"})
	require.NoError(t, err)
	group, err := env.store.Catalogue().CreateSkillGroup(ctx, env.org.ID, store.SkillGroup{CapabilityID: capability.ID, Name: "Knots"})
	require.NoError(t, err)
	_, err = env.store.Catalogue().CreateSkill(ctx, env.org.ID, store.Skill{CapabilityID: capability.ID, SkillGroupID: group.ID, Name: "Figure eight"})
	require.NoError(t, err)
	sess, err := env.store.Assessments().CreateSession(ctx, env.org.ID, store.SkillCheckSessionWithRelations{
		SkillCheckSession: store.SkillCheckSession{Name: "Knot night", Date: "2026-03-14", AssessorID: env.me.ID},
	})
	require.NoError(t, err)

	tests := []struct {
		path string
		want []string
	}{
		{"/app/alpha", []string{"<h1>Dashboard</h1>", `<span aria-current="page">Dashboard</span>`}},
		{"/app/alpha/teams", []string{"Rescue One", `<a href="/app/alpha">Alpha Rescue</a>`}},
		{"/app/alpha/teams/" + team.ID, []string{"Jane Doe", "Leader", `<a href="/app/alpha/teams">Teams</a>`}},
		{"/app/alpha/personnel", []string{"jane@example.com"}},
		{"/app/alpha/personnel/" + env.me.ID, []string{"<h1>Jane Doe</h1>", "Skill currency", "never_checked"}},
		{"/app/alpha/skills", []string{"Rope Rescue", "Knots", "Figure eight"}},
		{"/app/alpha/competencies", []string{"Knot night"}},
		{"/app/alpha/competencies/sessions/" + sess.ID, []string{"No checks recorded."}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := env.do(t, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
			body := readBody(t, resp)
			for _, w := range tt.want {
				assert.Contains(t, body, w)
			}
		})
	}
}

func TestPages_Placeholders(t *testing.T) {
	env := newTestEnv(t)
	team, err := env.store.Teams().Create(t.Context(), env.org.ID, store.Team{Name: "Rescue One"})
	require.NoError(t, err)

	tests := []struct {
		path   string
		crumbs []string
	}{
		{"/app/alpha/reports", []string{`<a href="/app/alpha">Alpha Rescue</a>`, `<span aria-current="page">Reports</span>`}},
		{"/app/alpha/settings", []string{`<span aria-current="page">Settings</span>`}},
		{"/app/alpha/competencies/reports", []string{`<a href="/app/alpha/competencies">Competencies</a>`}},
		{"/app/alpha/teams/" + team.ID + "/calendar", []string{`<a href="/app/alpha/teams">Teams</a>`}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := env.do(t, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			body := readBody(t, resp)
			assert.Contains(t, body, "Not Implemented")
			for _, c := range tt.crumbs {
				assert.Contains(t, body, c)
			}
		})
	}
}

func TestPages_Errors(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/app/alpha/teams/00000000-0000-0000-0000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "not_found")

	resp = env.do(t, http.MethodGet, "/app/elsewhere", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestPages_SetOrgCookie(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/app/alpha", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == orgCookie {
			found = true
			assert.Equal(t, "alpha", c.Value)
		}
	}
	assert.True(t, found)
}

func TestBuildCatalogue(t *testing.T) {
	caps := []store.Capability{{ID: "c1", Name: "Rope"}}
	groups := []store.SkillGroup{
		{ID: "g1", CapabilityID: "c1", Name: "Knots"},
		{ID: "g2", CapabilityID: "c1", ParentID: "g1", Name: "Hitches"},
	}
	skills := []store.Skill{
		{ID: "s1", CapabilityID: "c1", Name: "Care"},
		{ID: "s2", CapabilityID: "c1", SkillGroupID: "g1", Name: "Figure eight"},
		{ID: "s3", CapabilityID: "c1", SkillGroupID: "g2", Name: "Prusik"},
	}

	tree := buildCatalogue(caps, groups, skills)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Ungrouped, 1)
	require.Len(t, tree[0].Groups, 1)
	knots := tree[0].Groups[0]
	assert.Equal(t, "Knots", knots.Group.Name)
	require.Len(t, knots.Groups, 1)
	assert.Equal(t, "Prusik", knots.Groups[0].Skills[0].Name)
}

func TestMemo(t *testing.T) {
	app := fiber.New()
	calls := 0
	app.Get("/memo", func(c *fiber.Ctx) error {
		for range 3 {
			v, err := Memo(c, "k", func() (int, error) {
				calls++
				return 42, nil
			})
			if err != nil || v != 42 {
				return c.SendStatus(http.StatusInternalServerError)
			}
		}
		return c.SendStatus(http.StatusNoContent)
	})

	for range 2 {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/memo", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	}
	assert.Equal(t, 2, calls, "one load per request")
}
