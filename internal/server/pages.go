package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rtplus/rtplus/internal/currency"
	"github.com/rtplus/rtplus/internal/store"
)

func (s *Server) pageRoutes(app fiber.Router) {
	app.Get("/", s.chooseOrgPage)

	org := app.Group("/:org", s.loadPageTenant)
	org.Get("/", s.dashboardPage)
	org.Get("/teams", s.teamsPage)
	org.Get("/teams/:id", s.teamPage)
	org.Get("/personnel", s.personnelPage)
	org.Get("/personnel/:id", s.personPage)
	org.Get("/skills", s.skillsPage)
	org.Get("/competencies", s.competenciesPage)
	org.Get("/competencies/sessions/:id", s.sessionPage)

	org.Get("/teams/:id/calendar", s.placeholder("Calendar", "Teams", "teams"))
	org.Get("/competencies/reports", s.placeholder("Reports", "Competencies", "competencies"))
	org.Get("/reports", s.placeholder("Reports", "", ""))
	org.Get("/settings", s.placeholder("Settings", "", ""))
}

// loadPageTenant resolves the organization named in the path and remembers
// it for API calls made from the page.
func (s *Server) loadPageTenant(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, c.Params("org"))
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     orgCookie,
		Value:    t.Org.Slug,
		Path:     "/",
		Expires:  s.now().Add(orgCookieTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Next()
}

// page builds the common page data for the current organization. Crumbs
// are label/href pairs after the organization crumb; the final label needs
// no href.
func (s *Server) page(c *fiber.Ctx, title string, content any, crumbs ...Breadcrumb) (pageData, error) {
	t, err := s.currentTenant(c, c.Params("org"))
	if err != nil {
		return pageData{}, err
	}
	orgs, err := s.organizations(c)
	if err != nil {
		return pageData{}, err
	}
	trail := append([]Breadcrumb{{Label: t.Org.Name, Href: orgPath(t.Org)}}, crumbs...)
	return pageData{
		Title:       title,
		User:        t.Session,
		Org:         t.Org,
		Orgs:        orgs,
		Breadcrumbs: trail,
		Content:     content,
	}, nil
}

func orgPath(o *store.Organization) string {
	return "/app/" + o.Slug
}

// chooseOrgPage sends the user to their first organization.
func (s *Server) chooseOrgPage(c *fiber.Ctx) error {
	orgs, err := s.organizations(c)
	if err != nil {
		return err
	}
	if len(orgs) == 0 {
		return forbidden("your account does not belong to any organization")
	}
	if o := findOrg(orgs, c.Cookies(orgCookie)); o != nil {
		return c.Redirect(orgPath(o), fiber.StatusFound)
	}
	return c.Redirect(orgPath(&orgs[0]), fiber.StatusFound)
}

type dashboardContent struct {
	Teams        int
	Personnel    int
	Capabilities int
	Skills       int
}

func (s *Server) dashboardPage(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, c.Params("org"))
	if err != nil {
		return err
	}
	ctx, orgID := c.UserContext(), t.Org.ID

	var content dashboardContent
	teams, err := s.store.Teams().List(ctx, orgID)
	if err != nil {
		return err
	}
	people, err := s.store.People().List(ctx, orgID)
	if err != nil {
		return err
	}
	caps, err := s.store.Catalogue().ListCapabilities(ctx, orgID)
	if err != nil {
		return err
	}
	skills, err := s.store.Catalogue().ListSkills(ctx, orgID)
	if err != nil {
		return err
	}
	content.Teams, content.Personnel = len(teams), len(people)
	content.Capabilities, content.Skills = len(caps), len(skills)

	data, err := s.page(c, "Dashboard", content, Breadcrumb{Label: "Dashboard"})
	if err != nil {
		return err
	}
	return s.pages.render(c, fiber.StatusOK, "dashboard", data)
}

func (s *Server) teamsPage(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, c.Params("org"))
	if err != nil {
		return err
	}
	teams, err := s.store.Teams().List(c.UserContext(), t.Org.ID)
	if err != nil {
		return err
	}
	data, err := s.page(c, "Teams", teams, Breadcrumb{Label: "Teams"})
	if err != nil {
		return err
	}
	return s.pages.render(c, fiber.StatusOK, "teams", data)
}

type teamContent struct {
	Team    *store.Team
	Members []store.TeamMember
}

func (s *Server) teamPage(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, c.Params("org"))
	if err != nil {
		return err
	}
	team, err := s.store.Teams().Get(c.UserContext(), t.Org.ID, c.Params("id"))
	if err != nil {
		return err
	}
	members, err := s.store.Teams().Members(c.UserContext(), t.Org.ID, team.ID)
	if err != nil {
		return err
	}
	data, err := s.page(c, team.Name, teamContent{Team: team, Members: members},
		Breadcrumb{Label: "Teams", Href: orgPath(t.Org) + "/teams"},
		Breadcrumb{Label: team.Name})
	if err != nil {
		return err
	}
	return s.pages.render(c, fiber.StatusOK, "team", data)
}

func (s *Server) personnelPage(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, c.Params("org"))
	if err != nil {
		return err
	}
	people, err := s.store.People().List(c.UserContext(), t.Org.ID)
	if err != nil {
		return err
	}
	data, err := s.page(c, "Personnel", people, Breadcrumb{Label: "Personnel"})
	if err != nil {
		return err
	}
	return s.pages.render(c, fiber.StatusOK, "personnel", data)
}

func (s *Server) personPage(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, c.Params("org"))
	if err != nil {
		return err
	}
	p, err := s.store.People().Get(c.UserContext(), t.Org.ID, c.Params("id"))
	if err != nil {
		return err
	}
	rows, err := s.skillCurrency(c.UserContext(), t.Org.ID, p.ID, s.now())
	if err != nil {
		return err
	}
	view := personView{Person: *p, Currency: rows}
	data, err := s.page(c, p.Name, view,
		Breadcrumb{Label: "Personnel", Href: orgPath(t.Org) + "/personnel"},
		Breadcrumb{Label: p.Name})
	if err != nil {
		return err
	}
	return s.pages.render(c, fiber.StatusOK, "person", data)
}

type personView struct {
	store.Person
	Currency []currency.Row
}

// capabilityTree is a capability with its groups and skills for display.
type capabilityTree struct {
	Capability store.Capability
	Ungrouped  []store.Skill
	Groups     []groupTree
}

type groupTree struct {
	Group  store.SkillGroup
	Skills []store.Skill
	Groups []groupTree
}

func buildCatalogue(caps []store.Capability, groups []store.SkillGroup, skills []store.Skill) []capabilityTree {
	skillsByGroup := make(map[string][]store.Skill)
	ungrouped := make(map[string][]store.Skill)
	for _, sk := range skills {
		if sk.SkillGroupID == "" {
			ungrouped[sk.CapabilityID] = append(ungrouped[sk.CapabilityID], sk)
			continue
		}
		skillsByGroup[sk.SkillGroupID] = append(skillsByGroup[sk.SkillGroupID], sk)
	}
	children := make(map[string][]store.SkillGroup)
	for _, g := range groups {
		parent := g.ParentID
		if parent == "" {
			parent = g.CapabilityID
		}
		children[parent] = append(children[parent], g)
	}

	var build func(parent string) []groupTree
	build = func(parent string) []groupTree {
		var out []groupTree
		for _, g := range children[parent] {
			out = append(out, groupTree{Group: g, Skills: skillsByGroup[g.ID], Groups: build(g.ID)})
		}
		return out
	}

	out := make([]capabilityTree, 0, len(caps))
	for _, cp := range caps {
		out = append(out, capabilityTree{
			Capability: cp,
			Ungrouped:  ungrouped[cp.ID],
			Groups:     build(cp.ID),
		})
	}
	return out
}

func (s *Server) skillsPage(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, c.Params("org"))
	if err != nil {
		return err
	}
	ctx, cat := c.UserContext(), s.store.Catalogue()
	caps, err := cat.ListCapabilities(ctx, t.Org.ID)
	if err != nil {
		return err
	}
	groups, err := cat.ListSkillGroups(ctx, t.Org.ID)
	if err != nil {
		return err
	}
	skills, err := cat.ListSkills(ctx, t.Org.ID)
	if err != nil {
		return err
	}
	data, err := s.page(c, "Skills", buildCatalogue(caps, groups, skills), Breadcrumb{Label: "Skills"})
	if err != nil {
		return err
	}
	return s.pages.render(c, fiber.StatusOK, "skills", data)
}

type competenciesContent struct {
	Assessments []store.CompetencyAssessment
	Sessions    []store.SkillCheckSession
}

func (s *Server) competenciesPage(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, c.Params("org"))
	if err != nil {
		return err
	}
	ctx, repo := c.UserContext(), s.store.Assessments()
	assessments, err := repo.ListAssessments(ctx, t.Org.ID)
	if err != nil {
		return err
	}
	sessions, err := repo.ListSessions(ctx, t.Org.ID)
	if err != nil {
		return err
	}
	data, err := s.page(c, "Competencies", competenciesContent{Assessments: assessments, Sessions: sessions},
		Breadcrumb{Label: "Competencies"})
	if err != nil {
		return err
	}
	return s.pages.render(c, fiber.StatusOK, "competencies", data)
}

type sessionContent struct {
	Session *store.SkillCheckSessionWithRelations
	Checks  []store.SkillCheck
}

func (s *Server) sessionPage(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, c.Params("org"))
	if err != nil {
		return err
	}
	ctx, repo := c.UserContext(), s.store.Assessments()
	sess, err := repo.GetSession(ctx, t.Org.ID, c.Params("id"))
	if err != nil {
		return err
	}
	checks, err := repo.ListChecks(ctx, t.Org.ID, sess.ID)
	if err != nil {
		return err
	}
	data, err := s.page(c, sess.Name, sessionContent{Session: sess, Checks: checks},
		Breadcrumb{Label: "Competencies", Href: orgPath(t.Org) + "/competencies"},
		Breadcrumb{Label: sess.Name})
	if err != nil {
		return err
	}
	return s.pages.render(c, fiber.StatusOK, "session", data)
}

// placeholder renders the Not Implemented page. section, when set, adds a
// crumb linking to the parent section at sectionPath.
func (s *Server) placeholder(title, section, sectionPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := s.currentTenant(c, c.Params("org"))
		if err != nil {
			return err
		}
		var crumbs []Breadcrumb
		if section != "" {
			crumbs = append(crumbs, Breadcrumb{Label: section, Href: orgPath(t.Org) + "/" + sectionPath})
		}
		crumbs = append(crumbs, Breadcrumb{Label: title})
		data, err := s.page(c, title, nil, crumbs...)
		if err != nil {
			return err
		}
		return s.pages.render(c, fiber.StatusOK, "placeholder", data)
	}
}
