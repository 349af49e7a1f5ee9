package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rtplus/rtplus/internal/store"
)

const dateLayout = "2006-01-02"

type assessmentRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	Location    string   `json:"location" validate:"max=200"`
	Status      string   `json:"status" validate:"omitempty,oneof=Draft Scheduled Complete Cancelled"`
	AssesseeIDs []string `json:"assesseeIds" validate:"dive,uuid"`
	SkillIDs    []string `json:"skillIds" validate:"dive,uuid"`
}

type sessionRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	AssessorID  string   `json:"assessorId" validate:"omitempty,uuid"`
	Status      string   `json:"status" validate:"omitempty,oneof=Draft Scheduled Complete Cancelled"`
	AssesseeIDs []string `json:"assesseeIds" validate:"dive,uuid"`
	SkillIDs    []string `json:"skillIds" validate:"dive,uuid"`
}

type checkRequest struct {
	SkillID    string `json:"skillId" validate:"required,uuid"`
	AssesseeID string `json:"assesseeId" validate:"required,uuid"`
	Result     string `json:"result" validate:"required,oneof=Competent NotYetCompetent NotTested"`
	Notes      string `json:"notes" validate:"max=2000"`
	Date       string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (s *Server) listAssessments(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	list, err := s.store.Assessments().ListAssessments(c.UserContext(), t.Org.ID)
	if err != nil {
		return err
	}
	return sendList(c, list)
}

func (s *Server) createAssessment(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	var req assessmentRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	created, err := s.store.Assessments().CreateAssessment(c.UserContext(), t.Org.ID, store.CompetencyAssessmentWithRelations{
		CompetencyAssessment: store.CompetencyAssessment{
			Name:     req.Name,
			Date:     req.Date,
			Location: req.Location,
			Status:   req.Status,
		},
		AssesseeIDs: req.AssesseeIDs,
		SkillIDs:    req.SkillIDs,
	})
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusCreated, created)
}

func (s *Server) getAssessment(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	a, err := s.store.Assessments().GetAssessment(c.UserContext(), t.Org.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, a)
}

func (s *Server) listSessions(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	list, err := s.store.Assessments().ListSessions(c.UserContext(), t.Org.ID)
	if err != nil {
		return err
	}
	return sendList(c, list)
}

// createSession defaults the assessor to the signed-in user.
func (s *Server) createSession(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	var req sessionRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	if req.AssessorID == "" {
		if t.Person == nil {
			return forbidden("%s has no person record in %s", t.Session.Email, t.Org.Slug)
		}
		req.AssessorID = t.Person.ID
	}
	created, err := s.store.Assessments().CreateSession(c.UserContext(), t.Org.ID, store.SkillCheckSessionWithRelations{
		SkillCheckSession: store.SkillCheckSession{
			Name:       req.Name,
			Date:       req.Date,
			AssessorID: req.AssessorID,
			Status:     req.Status,
		},
		AssesseeIDs: req.AssesseeIDs,
		SkillIDs:    req.SkillIDs,
	})
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusCreated, created)
}

func (s *Server) getSession(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	sess, err := s.store.Assessments().GetSession(c.UserContext(), t.Org.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, sess)
}

func (s *Server) listChecks(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	checks, err := s.store.Assessments().ListChecks(c.UserContext(), t.Org.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return sendList(c, checks)
}

// recordCheck records a verdict by the signed-in user, who must have a
// person record in the organization. Outside a session route the check is
// recorded ad hoc.
func (s *Server) recordCheck(c *fiber.Ctx) error {
	t, err := s.currentTenant(c, "")
	if err != nil {
		return err
	}
	if t.Person == nil {
		return forbidden("%s has no person record in %s", t.Session.Email, t.Org.Slug)
	}
	var req checkRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	if req.Date == "" {
		req.Date = s.now().Format(dateLayout)
	}
	check, err := s.store.Assessments().RecordCheck(c.UserContext(), t.Org.ID, store.SkillCheck{
		SessionID:  c.Params("id"),
		SkillID:    req.SkillID,
		AssessorID: t.Person.ID,
		AssesseeID: req.AssesseeID,
		Result:     req.Result,
		Notes:      req.Notes,
		Date:       req.Date,
	})
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusCreated, check)
}
