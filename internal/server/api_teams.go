package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rtplus/rtplus/internal/store"
)

type teamRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	ShortName string `json:"shortName" validate:"max=20"`
	Color     string `json:"color" validate:"omitempty,hexcolor"`
	Status    string `json:"status" validate:"omitempty,oneof=Active Inactive Archived"`
}

type teamPatch struct {
	Name      *string `json:"name" validate:"omitnil,min=1,max=120"`
	ShortName *string `json:"shortName" validate:"omitnil,max=20"`
	Color     *string `json:"color" validate:"omitempty,hexcolor"`
	Status    *string `json:"status" validate:"omitnil,oneof=Active Inactive Archived"`
}

type memberRequest struct {
	PersonID string `json:"personId" validate:"required,uuid"`
	Role     string `json:"role" validate:"omitempty,oneof=Member Leader"`
}

func (s *Server) listTeams(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	teams, err := s.store.Teams().List(c.UserContext(), t.Org.ID)
	if err != nil {
		return err
	}
	return sendList(c, teams)
}

func (s *Server) createTeam(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	var req teamRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	created, err := s.store.Teams().Create(c.UserContext(), t.Org.ID, store.Team{
		Name:      req.Name,
		ShortName: req.ShortName,
		Color:     req.Color,
		Status:    req.Status,
	})
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusCreated, created)
}

func (s *Server) getTeam(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	team, err := s.store.Teams().Get(c.UserContext(), t.Org.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, team)
}

func (s *Server) updateTeam(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	var req teamPatch
	if err := s.bind(c, &req); err != nil {
		return err
	}
	team, err := s.store.Teams().Update(c.UserContext(), t.Org.ID, c.Params("id"), store.TeamUpdate{
		Name:      req.Name,
		ShortName: req.ShortName,
		Color:     req.Color,
		Status:    req.Status,
	})
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, team)
}

func (s *Server) deleteTeam(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	if err := s.store.Teams().Delete(c.UserContext(), t.Org.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listMembers(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	members, err := s.store.Teams().Members(c.UserContext(), t.Org.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return sendList(c, members)
}

func (s *Server) addMember(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	var req memberRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	teamID := c.Params("id")
	if err := s.store.Teams().AddMember(c.UserContext(), t.Org.ID, teamID, req.PersonID, req.Role); err != nil {
		return err
	}
	members, err := s.store.Teams().Members(c.UserContext(), t.Org.ID, teamID)
	if err != nil {
		return err
	}
	for _, m := range members {
		if m.PersonID == req.PersonID {
			return sendData(c, fiber.StatusCreated, m)
		}
	}
	return store.ErrNotFound
}

func (s *Server) removeMember(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	if err := s.store.Teams().RemoveMember(c.UserContext(), t.Org.ID, c.Params("id"), c.Params("personId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
