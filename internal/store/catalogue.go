package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var (
	capabilityColumns = []string{"id", "org_id", "name", "description", "status", "created_at"}
	skillGroupColumns = []string{"id", "org_id", "capability_id", "parent_id", "name", "description", "status", "created_at"}
	skillColumns      = []string{"id", "org_id", "capability_id", "skill_group_id", "name", "description", "frequency", "optional", "status", "created_at"}
)

// DefaultFrequency is the ISO-8601 recheck interval given to new skills.
const DefaultFrequency = "P1Y"

type catalogueRepo struct {
	s *Store

	// q is the open transaction when the repo is bound to one.
	q queryer
}

func (r *catalogueRepo) conn() queryer {
	if r.q != nil {
		return r.q
	}
	return r.s.db
}

// tx runs fn in the bound transaction, or in a new one.
func (r *catalogueRepo) tx(ctx context.Context, fn func(q queryer) error) error {
	if r.q != nil {
		return fn(r.q)
	}
	return r.s.withTx(ctx, fn)
}

func (r *catalogueRepo) Atomically(ctx context.Context, fn func(CatalogueRepo) error) error {
	if r.q != nil {
		return fn(r)
	}
	return r.s.withTx(ctx, func(q queryer) error {
		return fn(&catalogueRepo{s: r.s, q: q})
	})
}

func scanCapability(r rowScanner) (Capability, error) {
	var (
		c       Capability
		created string
	)
	if err := r.Scan(&c.ID, &c.OrgID, &c.Name, &c.Description, &c.Status, &created); err != nil {
		return c, err
	}
	t, err := parseTime(created)
	c.CreatedAt = t
	return c, err
}

func scanSkillGroup(r rowScanner) (SkillGroup, error) {
	var (
		g       SkillGroup
		parent  sql.NullString
		created string
	)
	if err := r.Scan(&g.ID, &g.OrgID, &g.CapabilityID, &parent, &g.Name, &g.Description, &g.Status, &created); err != nil {
		return g, err
	}
	g.ParentID = parent.String
	t, err := parseTime(created)
	g.CreatedAt = t
	return g, err
}

func scanSkill(r rowScanner) (Skill, error) {
	var (
		s        Skill
		group    sql.NullString
		optional int
		created  string
	)
	if err := r.Scan(&s.ID, &s.OrgID, &s.CapabilityID, &group, &s.Name, &s.Description, &s.Frequency, &optional, &s.Status, &created); err != nil {
		return s, err
	}
	s.SkillGroupID = group.String
	s.Optional = optional != 0
	t, err := parseTime(created)
	s.CreatedAt = t
	return s, err
}

func (r *catalogueRepo) CreateCapability(ctx context.Context, orgID string, c Capability) (*Capability, error) {
	if c.Status == "" {
		c.Status = StatusActive
	}
	id := uuid.NewString()
	_, err := execQuery(ctx, r.conn(), sqlb.Insert("capabilities").
		Columns(capabilityColumns...).
		Values(id, orgID, strings.TrimSpace(c.Name), c.Description, c.Status, r.s.stamp()))
	if err != nil {
		return nil, fmt.Errorf("create capability %q: %w", c.Name, err)
	}
	return r.GetCapability(ctx, orgID, id)
}

func (r *catalogueRepo) GetCapability(ctx context.Context, orgID, id string) (*Capability, error) {
	c, err := selectOne(ctx, r.conn(), sqlb.Select(capabilityColumns...).
		From(sqlb.Table("capabilities")).
		Where(entsql.And(entsql.EQ("org_id", orgID), entsql.EQ("id", id))), scanCapability)
	if err != nil {
		return nil, fmt.Errorf("get capability %s: %w", id, err)
	}
	return &c, nil
}

func (r *catalogueRepo) ListCapabilities(ctx context.Context, orgID string) ([]Capability, error) {
	caps, err := selectAll(ctx, r.conn(), sqlb.Select(capabilityColumns...).
		From(sqlb.Table("capabilities")).
		Where(entsql.EQ("org_id", orgID)).
		OrderBy("name"), scanCapability)
	if err != nil {
		return nil, fmt.Errorf("list capabilities: %w", err)
	}
	return caps, nil
}

// groupCapability returns the capability a skill group belongs to, scoped
// to orgID.
func groupCapability(ctx context.Context, q queryer, orgID, groupID string) (string, error) {
	capID, err := selectOne(ctx, q, sqlb.Select("capability_id").
		From(sqlb.Table("skill_groups")).
		Where(entsql.And(entsql.EQ("org_id", orgID), entsql.EQ("id", groupID))), scanString)
	if err != nil {
		return "", fmt.Errorf("skill group %s: %w", groupID, ErrInvalidReference)
	}
	return capID, nil
}

func (r *catalogueRepo) CreateSkillGroup(ctx context.Context, orgID string, g SkillGroup) (*SkillGroup, error) {
	if g.Status == "" {
		g.Status = StatusActive
	}
	g.ID = uuid.NewString()
	g.OrgID = orgID
	g.Name = strings.TrimSpace(g.Name)

	err := r.tx(ctx, func(q queryer) error {
		if err := ensureInOrg(ctx, q, "capabilities", orgID, []string{g.CapabilityID}); err != nil {
			return err
		}
		if g.ParentID != "" {
			parentCap, err := groupCapability(ctx, q, orgID, g.ParentID)
			if err != nil {
				return err
			}
			if parentCap != g.CapabilityID {
				return fmt.Errorf("parent group %s is in another capability: %w", g.ParentID, ErrInvalidReference)
			}
		}
		_, err := execQuery(ctx, q, sqlb.Insert("skill_groups").
			Columns(skillGroupColumns...).
			Values(g.ID, orgID, g.CapabilityID, nullString(g.ParentID), g.Name, g.Description, g.Status, r.s.stamp()))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create skill group %q: %w", g.Name, err)
	}

	got, err := selectOne(ctx, r.conn(), sqlb.Select(skillGroupColumns...).
		From(sqlb.Table("skill_groups")).
		Where(entsql.EQ("id", g.ID)), scanSkillGroup)
	if err != nil {
		return nil, fmt.Errorf("get skill group %s: %w", g.ID, err)
	}
	return &got, nil
}

func (r *catalogueRepo) ListSkillGroups(ctx context.Context, orgID string) ([]SkillGroup, error) {
	groups, err := selectAll(ctx, r.conn(), sqlb.Select(skillGroupColumns...).
		From(sqlb.Table("skill_groups")).
		Where(entsql.EQ("org_id", orgID)).
		OrderBy("name"), scanSkillGroup)
	if err != nil {
		return nil, fmt.Errorf("list skill groups: %w", err)
	}
	return groups, nil
}

func (r *catalogueRepo) CreateSkill(ctx context.Context, orgID string, s Skill) (*Skill, error) {
	if s.Status == "" {
		s.Status = StatusActive
	}
	if s.Frequency == "" {
		s.Frequency = DefaultFrequency
	}
	id := uuid.NewString()

	err := r.tx(ctx, func(q queryer) error {
		if err := ensureInOrg(ctx, q, "capabilities", orgID, []string{s.CapabilityID}); err != nil {
			return err
		}
		if s.SkillGroupID != "" {
			groupCap, err := groupCapability(ctx, q, orgID, s.SkillGroupID)
			if err != nil {
				return err
			}
			if groupCap != s.CapabilityID {
				return fmt.Errorf("skill group %s is in another capability: %w", s.SkillGroupID, ErrInvalidReference)
			}
		}
		_, err := execQuery(ctx, q, sqlb.Insert("skills").
			Columns(skillColumns...).
			Values(id, orgID, s.CapabilityID, nullString(s.SkillGroupID), strings.TrimSpace(s.Name),
				s.Description, s.Frequency, boolInt(s.Optional), s.Status, r.s.stamp()))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create skill %q: %w", s.Name, err)
	}
	return r.GetSkill(ctx, orgID, id)
}

func (r *catalogueRepo) GetSkill(ctx context.Context, orgID, id string) (*Skill, error) {
	s, err := selectOne(ctx, r.conn(), sqlb.Select(skillColumns...).
		From(sqlb.Table("skills")).
		Where(entsql.And(entsql.EQ("org_id", orgID), entsql.EQ("id", id))), scanSkill)
	if err != nil {
		return nil, fmt.Errorf("get skill %s: %w", id, err)
	}
	return &s, nil
}

func (r *catalogueRepo) ListSkills(ctx context.Context, orgID string) ([]Skill, error) {
	skills, err := selectAll(ctx, r.conn(), sqlb.Select(skillColumns...).
		From(sqlb.Table("skills")).
		Where(entsql.EQ("org_id", orgID)).
		OrderBy("name"), scanSkill)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return skills, nil
}
