package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rtplus/rtplus/internal/store"
)

type capabilityRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Status      string `json:"status" validate:"omitempty,oneof=Active Inactive Archived"`
}

type skillGroupRequest struct {
	CapabilityID string `json:"capabilityId" validate:"required,uuid"`
	ParentID     string `json:"parentId" validate:"omitempty,uuid"`
	Name         string `json:"name" validate:"required,max=120"`
	Description  string `json:"description" validate:"max=2000"`
}

type skillRequest struct {
	CapabilityID string `json:"capabilityId" validate:"required,uuid"`
	SkillGroupID string `json:"skillGroupId" validate:"omitempty,uuid"`
	Name         string `json:"name" validate:"required,max=120"`
	Description  string `json:"description" validate:"max=2000"`
	Frequency    string `json:"frequency" validate:"omitempty,isoduration"`
	Optional     bool   `json:"optional"`
}

func (s *Server) listCapabilities(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	caps, err := s.store.Catalogue().ListCapabilities(c.UserContext(), t.Org.ID)
	if err != nil {
		return err
	}
	return sendList(c, caps)
}

func (s *Server) createCapability(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	var req capabilityRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	created, err := s.store.Catalogue().CreateCapability(c.UserContext(), t.Org.ID, store.Capability{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusCreated, created)
}

func (s *Server) listSkillGroups(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	groups, err := s.store.Catalogue().ListSkillGroups(c.UserContext(), t.Org.ID)
	if err != nil {
		return err
	}
	return sendList(c, groups)
}

func (s *Server) createSkillGroup(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	var req skillGroupRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	created, err := s.store.Catalogue().CreateSkillGroup(c.UserContext(), t.Org.ID, store.SkillGroup{
		CapabilityID: req.CapabilityID,
		ParentID:     req.ParentID,
		Name:         req.Name,
		Description:  req.Description,
	})
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusCreated, created)
}

func (s *Server) listSkills(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	skills, err := s.store.Catalogue().ListSkills(c.UserContext(), t.Org.ID)
	if err != nil {
		return err
	}
	return sendList(c, skills)
}

func (s *Server) createSkill(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	var req skillRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	created, err := s.store.Catalogue().CreateSkill(c.UserContext(), t.Org.ID, store.Skill{
		CapabilityID: req.CapabilityID,
		SkillGroupID: req.SkillGroupID,
		Name:         req.Name,
		Description:  req.Description,
		Frequency:    req.Frequency,
		Optional:     req.Optional,
	})
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusCreated, created)
}
