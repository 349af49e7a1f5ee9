package server

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rtplus/rtplus/internal/currency"
	"github.com/rtplus/rtplus/internal/personnel"
	"github.com/rtplus/rtplus/internal/sandbox"
	"github.com/rtplus/rtplus/internal/store"
)

type personRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Email  string `json:"email" validate:"omitempty,email"`
	Status string `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

type personPatch struct {
	Name   *string `json:"name" validate:"omitnil,min=1,max=200"`
	Email  *string `json:"email" validate:"omitnil,email"`
	Status *string `json:"status" validate:"omitnil,oneof=Active Inactive"`
}

func (s *Server) listPersonnel(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	people, err := s.store.People().List(c.UserContext(), t.Org.ID)
	if err != nil {
		return err
	}
	return sendList(c, people)
}

// createPerson adds one person. Sandbox organizations may omit the email;
// one is generated from the name.
func (s *Server) createPerson(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	var req personRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	if req.Email == "" {
		if !t.Org.Sandbox {
			return badRequest("email is required")
		}
		req.Email = sandbox.EmailOfDomain(req.Name, s.cfg.SandboxDomain)
	}
	created, err := s.store.People().Create(c.UserContext(), t.Org.ID, store.NewPerson{
		Name:   strings.TrimSpace(req.Name),
		Email:  req.Email,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusCreated, created)
}

func (s *Server) getPerson(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	p, err := s.store.People().Get(c.UserContext(), t.Org.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, p)
}

func (s *Server) updatePerson(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	var req personPatch
	if err := s.bind(c, &req); err != nil {
		return err
	}
	p, err := s.store.People().Update(c.UserContext(), t.Org.ID, c.Params("id"), store.PersonUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, p)
}

func (s *Server) personCurrency(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	rows, err := s.skillCurrency(c.UserContext(), t.Org.ID, c.Params("id"), s.now())
	if err != nil {
		return err
	}
	return sendList(c, rows)
}

// skillCurrency assesses every active skill in the organization against the
// checks recorded for one person.
func (s *Server) skillCurrency(ctx context.Context, orgID, personID string, now time.Time) ([]currency.Row, error) {
	checks, err := s.store.Assessments().ListChecksForPerson(ctx, orgID, personID)
	if err != nil {
		return nil, err
	}
	skills, err := s.store.Catalogue().ListSkills(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return currency.Assess(skills, checks, now)
}

// importPersonnel takes a JSON import document. ?dryRun=true validates and
// reports without writing.
func (s *Server) importPersonnel(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	rows, err := personnel.ParseJSON(c.Body())
	if err != nil {
		return err
	}

	opts := personnel.Options{
		Sandbox:       t.Org.Sandbox,
		SandboxDomain: s.cfg.SandboxDomain,
		DryRun:        c.QueryBool("dryRun"),
	}
	res, err := s.importer.Import(c.UserContext(), t.Org.ID, rows, opts)
	if err != nil {
		return err
	}

	status := fiber.StatusCreated
	if opts.DryRun || len(res.Created) == 0 {
		status = fiber.StatusOK
	}
	return sendData(c, status, res)
}
