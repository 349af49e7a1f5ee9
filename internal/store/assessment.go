package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var (
	assessmentColumns = []string{"id", "org_id", "name", "date", "location", "status", "created_at"}
	sessionColumns    = []string{"id", "org_id", "name", "date", "assessor_id", "status", "created_at"}
	checkColumns      = []string{"id", "org_id", "session_id", "skill_id", "assessor_id", "assessee_id", "result", "notes", "date", "created_at"}
)

// relation describes a join table linking a parent record to people or
// skills.
type relation struct {
	table     string
	parentCol string
	childCol  string
}

var (
	assessmentAssessees = relation{"competency_assessment_assessees", "assessment_id", "person_id"}
	assessmentSkills    = relation{"competency_assessment_skills", "assessment_id", "skill_id"}
	sessionAssessees    = relation{"skill_check_session_assessees", "session_id", "person_id"}
	sessionSkills       = relation{"skill_check_session_skills", "session_id", "skill_id"}
)

func (rel relation) insert(ctx context.Context, q queryer, parentID string, ids []string) error {
	for _, id := range dedupe(ids) {
		_, err := execQuery(ctx, q, sqlb.Insert(rel.table).
			Columns(rel.parentCol, rel.childCol).
			Values(parentID, id))
		if err != nil {
			return fmt.Errorf("link %s: %w", rel.table, err)
		}
	}
	return nil
}

func (rel relation) ids(ctx context.Context, q queryer, parentID string) ([]string, error) {
	ids, err := selectStrings(ctx, q, sqlb.Select(rel.childCol).
		From(sqlb.Table(rel.table)).
		Where(entsql.EQ(rel.parentCol, parentID)).
		OrderBy(rel.childCol))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", rel.table, err)
	}
	return ids, nil
}

func (rel relation) contains(ctx context.Context, q queryer, parentID, childID string) (bool, error) {
	_, err := selectOne(ctx, q, sqlb.Select(rel.childCol).
		From(sqlb.Table(rel.table)).
		Where(entsql.And(entsql.EQ(rel.parentCol, parentID), entsql.EQ(rel.childCol, childID))), scanString)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

type assessmentRepo struct {
	s *Store
}

func scanAssessment(r rowScanner) (CompetencyAssessment, error) {
	var (
		a       CompetencyAssessment
		created string
	)
	if err := r.Scan(&a.ID, &a.OrgID, &a.Name, &a.Date, &a.Location, &a.Status, &created); err != nil {
		return a, err
	}
	t, err := parseTime(created)
	a.CreatedAt = t
	return a, err
}

func scanSession(r rowScanner) (SkillCheckSession, error) {
	var (
		s       SkillCheckSession
		created string
	)
	if err := r.Scan(&s.ID, &s.OrgID, &s.Name, &s.Date, &s.AssessorID, &s.Status, &created); err != nil {
		return s, err
	}
	t, err := parseTime(created)
	s.CreatedAt = t
	return s, err
}

func scanCheck(r rowScanner) (SkillCheck, error) {
	var (
		c       SkillCheck
		session sql.NullString
		created string
	)
	if err := r.Scan(&c.ID, &c.OrgID, &session, &c.SkillID, &c.AssessorID, &c.AssesseeID, &c.Result, &c.Notes, &c.Date, &created); err != nil {
		return c, err
	}
	c.SessionID = session.String
	t, err := parseTime(created)
	c.CreatedAt = t
	return c, err
}

func (r *assessmentRepo) CreateAssessment(ctx context.Context, orgID string, a CompetencyAssessmentWithRelations) (*CompetencyAssessmentWithRelations, error) {
	if a.Status == "" {
		a.Status = SessionDraft
	}
	id := uuid.NewString()
	err := r.s.withTx(ctx, func(q queryer) error {
		if err := ensureInOrg(ctx, q, "persons", orgID, a.AssesseeIDs); err != nil {
			return err
		}
		if err := ensureInOrg(ctx, q, "skills", orgID, a.SkillIDs); err != nil {
			return err
		}
		_, err := execQuery(ctx, q, sqlb.Insert("competency_assessments").
			Columns(assessmentColumns...).
			Values(id, orgID, strings.TrimSpace(a.Name), a.Date, a.Location, a.Status, r.s.stamp()))
		if err != nil {
			return err
		}
		if err := assessmentAssessees.insert(ctx, q, id, a.AssesseeIDs); err != nil {
			return err
		}
		return assessmentSkills.insert(ctx, q, id, a.SkillIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("create assessment %q: %w", a.Name, err)
	}
	return r.GetAssessment(ctx, orgID, id)
}

func (r *assessmentRepo) GetAssessment(ctx context.Context, orgID, id string) (*CompetencyAssessmentWithRelations, error) {
	a, err := selectOne(ctx, r.s.db, sqlb.Select(assessmentColumns...).
		From(sqlb.Table("competency_assessments")).
		Where(entsql.And(entsql.EQ("org_id", orgID), entsql.EQ("id", id))), scanAssessment)
	if err != nil {
		return nil, fmt.Errorf("get assessment %s: %w", id, err)
	}
	out := &CompetencyAssessmentWithRelations{CompetencyAssessment: a}
	if out.AssesseeIDs, err = assessmentAssessees.ids(ctx, r.s.db, id); err != nil {
		return nil, err
	}
	if out.SkillIDs, err = assessmentSkills.ids(ctx, r.s.db, id); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assessmentRepo) ListAssessments(ctx context.Context, orgID string) ([]CompetencyAssessment, error) {
	list, err := selectAll(ctx, r.s.db, sqlb.Select(assessmentColumns...).
		From(sqlb.Table("competency_assessments")).
		Where(entsql.EQ("org_id", orgID)).
		OrderBy(entsql.Desc("date"), "name"), scanAssessment)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return list, nil
}

func (r *assessmentRepo) CreateSession(ctx context.Context, orgID string, s SkillCheckSessionWithRelations) (*SkillCheckSessionWithRelations, error) {
	if s.Status == "" {
		s.Status = SessionDraft
	}
	id := uuid.NewString()
	err := r.s.withTx(ctx, func(q queryer) error {
		if err := ensureInOrg(ctx, q, "persons", orgID, append([]string{s.AssessorID}, s.AssesseeIDs...)); err != nil {
			return err
		}
		if err := ensureInOrg(ctx, q, "skills", orgID, s.SkillIDs); err != nil {
			return err
		}
		_, err := execQuery(ctx, q, sqlb.Insert("skill_check_sessions").
			Columns(sessionColumns...).
			Values(id, orgID, strings.TrimSpace(s.Name), s.Date, s.AssessorID, s.Status, r.s.stamp()))
		if err != nil {
			return err
		}
		if err := sessionAssessees.insert(ctx, q, id, s.AssesseeIDs); err != nil {
			return err
		}
		return sessionSkills.insert(ctx, q, id, s.SkillIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("create skill check session %q: %w", s.Name, err)
	}
	return r.GetSession(ctx, orgID, id)
}

func (r *assessmentRepo) GetSession(ctx context.Context, orgID, id string) (*SkillCheckSessionWithRelations, error) {
	s, err := selectOne(ctx, r.s.db, sqlb.Select(sessionColumns...).
		From(sqlb.Table("skill_check_sessions")).
		Where(entsql.And(entsql.EQ("org_id", orgID), entsql.EQ("id", id))), scanSession)
	if err != nil {
		return nil, fmt.Errorf("get skill check session %s: %w", id, err)
	}
	out := &SkillCheckSessionWithRelations{SkillCheckSession: s}
	if out.AssesseeIDs, err = sessionAssessees.ids(ctx, r.s.db, id); err != nil {
		return nil, err
	}
	if out.SkillIDs, err = sessionSkills.ids(ctx, r.s.db, id); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assessmentRepo) ListSessions(ctx context.Context, orgID string) ([]SkillCheckSession, error) {
	list, err := selectAll(ctx, r.s.db, sqlb.Select(sessionColumns...).
		From(sqlb.Table("skill_check_sessions")).
		Where(entsql.EQ("org_id", orgID)).
		OrderBy(entsql.Desc("date"), "name"), scanSession)
	if err != nil {
		return nil, fmt.Errorf("list skill check sessions: %w", err)
	}
	return list, nil
}

func (r *assessmentRepo) RecordCheck(ctx context.Context, orgID string, c SkillCheck) (*SkillCheck, error) {
	c.ID = uuid.NewString()
	c.OrgID = orgID
	stamp := r.s.stamp()

	err := r.s.withTx(ctx, func(q queryer) error {
		if err := ensureInOrg(ctx, q, "persons", orgID, []string{c.AssessorID, c.AssesseeID}); err != nil {
			return err
		}
		if err := ensureInOrg(ctx, q, "skills", orgID, []string{c.SkillID}); err != nil {
			return err
		}
		if c.SessionID != "" {
			if err := existsInOrg(ctx, q, "skill_check_sessions", orgID, c.SessionID); err != nil {
				return fmt.Errorf("skill check session %s: %w", c.SessionID, err)
			}
			for _, chk := range []struct {
				rel relation
				id  string
			}{{sessionSkills, c.SkillID}, {sessionAssessees, c.AssesseeID}} {
				ok, err := chk.rel.contains(ctx, q, c.SessionID, chk.id)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%s is not part of session %s: %w", chk.id, c.SessionID, ErrInvalidReference)
				}
			}
		}
		_, err := execQuery(ctx, q, sqlb.Insert("skill_checks").
			Columns(checkColumns...).
			Values(c.ID, orgID, nullString(c.SessionID), c.SkillID, c.AssessorID, c.AssesseeID,
				c.Result, c.Notes, c.Date, stamp))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("record skill check: %w", err)
	}

	c.CreatedAt, err = parseTime(stamp)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *assessmentRepo) ListChecks(ctx context.Context, orgID, sessionID string) ([]SkillCheck, error) {
	if err := existsInOrg(ctx, r.s.db, "skill_check_sessions", orgID, sessionID); err != nil {
		return nil, fmt.Errorf("list skill checks: session %s: %w", sessionID, err)
	}
	checks, err := selectAll(ctx, r.s.db, sqlb.Select(checkColumns...).
		From(sqlb.Table("skill_checks")).
		Where(entsql.And(entsql.EQ("org_id", orgID), entsql.EQ("session_id", sessionID))).
		OrderBy("created_at"), scanCheck)
	if err != nil {
		return nil, fmt.Errorf("list skill checks: %w", err)
	}
	return checks, nil
}

// ListChecksForPerson returns every check recorded for one assessee, oldest
// first, across sessions and ad hoc checks.
func (r *assessmentRepo) ListChecksForPerson(ctx context.Context, orgID, personID string) ([]SkillCheck, error) {
	if err := existsInOrg(ctx, r.s.db, "persons", orgID, personID); err != nil {
		return nil, fmt.Errorf("list skill checks: person %s: %w", personID, err)
	}
	checks, err := selectAll(ctx, r.s.db, sqlb.Select(checkColumns...).
		From(sqlb.Table("skill_checks")).
		Where(entsql.And(entsql.EQ("org_id", orgID), entsql.EQ("assessee_id", personID))).
		OrderBy("date", "created_at"), scanCheck)
	if err != nil {
		return nil, fmt.Errorf("list skill checks: %w", err)
	}
	return checks, nil
}
