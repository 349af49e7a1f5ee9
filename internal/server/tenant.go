package server

import (
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rtplus/rtplus/internal/auth"
	"github.com/rtplus/rtplus/internal/store"
)

const (
	orgCookie    = auth.OrgCookie
	orgCookieTTL = 30 * 24 * time.Hour
)

// tenant is the signed-in user within one organization.
type tenant struct {
	Session *auth.Session
	Org     *store.Organization

	// Person is the user's own record in Org, nil if they have none.
	Person *store.Person
}

// organizations lists the organizations the signed-in user belongs to.
func (s *Server) organizations(c *fiber.Ctx) ([]store.Organization, error) {
	sess, err := auth.UserSession(c)
	if err != nil {
		return nil, err
	}
	return Memo(c, "orgs:"+sess.Email, func() ([]store.Organization, error) {
		return s.store.Organizations().ListForEmail(c.UserContext(), sess.Email)
	})
}

// currentTenant resolves the organization for this request: slug when
// given, else the org query parameter, else the org cookie, else the
// user's first organization. Only an explicit slug or query the user cannot
// access is forbidden; a stale cookie falls through to the first
// organization.
func (s *Server) currentTenant(c *fiber.Ctx, slug string) (*tenant, error) {
	if slug == "" {
		slug = c.Query("org")
	}
	remembered := c.Cookies(orgCookie)
	return Memo(c, "tenant:"+slug+"|"+remembered, func() (*tenant, error) {
		sess, err := auth.UserSession(c)
		if err != nil {
			return nil, err
		}
		orgs, err := s.organizations(c)
		if err != nil {
			return nil, err
		}
		if len(orgs) == 0 {
			return nil, forbidden("%s does not belong to any organization", sess.Email)
		}

		var org *store.Organization
		switch {
		case slug != "":
			if org = findOrg(orgs, slug); org == nil {
				return nil, forbidden("no access to organization %q", slug)
			}
		case remembered != "":
			org = findOrg(orgs, remembered)
		}
		if org == nil {
			org = &orgs[0]
		}

		t := &tenant{Session: sess, Org: org}
		t.Person, err = s.currentPerson(c, org.ID, sess.Email)
		if err != nil {
			return nil, err
		}
		return t, nil
	})
}

func findOrg(orgs []store.Organization, slug string) *store.Organization {
	for i := range orgs {
		if orgs[i].Slug == slug {
			return &orgs[i]
		}
	}
	return nil
}

// currentPerson is the memoized read of the user's own person record.
func (s *Server) currentPerson(c *fiber.Ctx, orgID, email string) (*store.Person, error) {
	return Memo(c, "person:"+orgID, func() (*store.Person, error) {
		p, err := s.store.People().GetByEmail(c.UserContext(), orgID, email)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return p, err
	})
}

// requirePageSession sends signed-out page requests to the login flow.
func (s *Server) requirePageSession(c *fiber.Ctx) error {
	if _, err := auth.UserSession(c); err != nil {
		return c.Redirect("/api/auth/login?returnTo="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
	}
	return c.Next()
}
