package store

import (
	"context"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var teamColumns = []string{"id", "org_id", "name", "short_name", "color", "status", "created_at"}

type teamRepo struct {
	s *Store
}

func scanTeam(r rowScanner) (Team, error) {
	var (
		t       Team
		created string
	)
	if err := r.Scan(&t.ID, &t.OrgID, &t.Name, &t.ShortName, &t.Color, &t.Status, &created); err != nil {
		return t, err
	}
	ts, err := parseTime(created)
	t.CreatedAt = ts
	return t, err
}

func (r *teamRepo) Create(ctx context.Context, orgID string, t Team) (*Team, error) {
	if t.Status == "" {
		t.Status = StatusActive
	}
	id := uuid.NewString()
	_, err := execQuery(ctx, r.s.db, sqlb.Insert("teams").
		Columns(teamColumns...).
		Values(id, orgID, strings.TrimSpace(t.Name), t.ShortName, t.Color, t.Status, r.s.stamp()))
	if err != nil {
		return nil, fmt.Errorf("create team %q: %w", t.Name, err)
	}
	return r.Get(ctx, orgID, id)
}

func (r *teamRepo) Get(ctx context.Context, orgID, id string) (*Team, error) {
	t, err := selectOne(ctx, r.s.db, sqlb.Select(teamColumns...).
		From(sqlb.Table("teams")).
		Where(entsql.And(entsql.EQ("org_id", orgID), entsql.EQ("id", id))), scanTeam)
	if err != nil {
		return nil, fmt.Errorf("get team %s: %w", id, err)
	}
	return &t, nil
}

func (r *teamRepo) List(ctx context.Context, orgID string) ([]Team, error) {
	teams, err := selectAll(ctx, r.s.db, sqlb.Select(teamColumns...).
		From(sqlb.Table("teams")).
		Where(entsql.EQ("org_id", orgID)).
		OrderBy("name"), scanTeam)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (r *teamRepo) Update(ctx context.Context, orgID, id string, u TeamUpdate) (*Team, error) {
	upd := sqlb.Update("teams").
		Where(entsql.And(entsql.EQ("org_id", orgID), entsql.EQ("id", id)))
	changed := false
	set := func(col string, v *string) {
		if v != nil {
			upd.Set(col, *v)
			changed = true
		}
	}
	set("name", u.Name)
	set("short_name", u.ShortName)
	set("color", u.Color)
	set("status", u.Status)

	if changed {
		if err := execAffecting(ctx, r.s.db, upd); err != nil {
			return nil, fmt.Errorf("update team %s: %w", id, err)
		}
	}
	return r.Get(ctx, orgID, id)
}

func (r *teamRepo) Delete(ctx context.Context, orgID, id string) error {
	err := execAffecting(ctx, r.s.db, sqlb.Delete("teams").
		Where(entsql.And(entsql.EQ("org_id", orgID), entsql.EQ("id", id))))
	if err != nil {
		return fmt.Errorf("delete team %s: %w", id, err)
	}
	return nil
}

func (r *teamRepo) AddMember(ctx context.Context, orgID, teamID, personID, role string) error {
	if role == "" {
		role = RoleMember
	}
	return r.s.withTx(ctx, func(q queryer) error {
		if err := existsInOrg(ctx, q, "teams", orgID, teamID); err != nil {
			return fmt.Errorf("add member: team %s: %w", teamID, err)
		}
		if err := ensureInOrg(ctx, q, "persons", orgID, []string{personID}); err != nil {
			return fmt.Errorf("add member: %w", err)
		}
		_, err := execQuery(ctx, q, sqlb.Insert("team_memberships").
			Columns("team_id", "person_id", "role", "created_at").
			Values(teamID, personID, role, r.s.stamp()))
		if err != nil {
			return fmt.Errorf("add member %s to team %s: %w", personID, teamID, err)
		}
		return nil
	})
}

func (r *teamRepo) RemoveMember(ctx context.Context, orgID, teamID, personID string) error {
	if err := existsInOrg(ctx, r.s.db, "teams", orgID, teamID); err != nil {
		return fmt.Errorf("remove member: team %s: %w", teamID, err)
	}
	err := execAffecting(ctx, r.s.db, sqlb.Delete("team_memberships").
		Where(entsql.And(entsql.EQ("team_id", teamID), entsql.EQ("person_id", personID))))
	if err != nil {
		return fmt.Errorf("remove member %s from team %s: %w", personID, teamID, err)
	}
	return nil
}

func (r *teamRepo) Members(ctx context.Context, orgID, teamID string) ([]TeamMember, error) {
	if _, err := r.Get(ctx, orgID, teamID); err != nil {
		return nil, err
	}

	m := entsql.Table("team_memberships").As("m")
	p := entsql.Table("persons").As("p")
	sel := sqlb.Select(m.C("team_id"), m.C("person_id"), p.C("name"), m.C("role"), m.C("created_at")).
		From(m).
		Join(p).On(m.C("person_id"), p.C("id")).
		Where(entsql.EQ(m.C("team_id"), teamID)).
		OrderBy(p.C("name"))

	members, err := selectAll(ctx, r.s.db, sel, func(row rowScanner) (TeamMember, error) {
		var (
			tm      TeamMember
			created string
		)
		if err := row.Scan(&tm.TeamID, &tm.PersonID, &tm.PersonName, &tm.Role, &created); err != nil {
			return tm, err
		}
		t, err := parseTime(created)
		tm.CreatedAt = t
		return tm, err
	})
	if err != nil {
		return nil, fmt.Errorf("list members of team %s: %w", teamID, err)
	}
	return members, nil
}
