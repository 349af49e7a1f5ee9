package store

import (
	"context"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var personColumns = []string{"id", "org_id", "name", "email", "status", "created_at"}

// personRepo implements both PersonRepo and PersonnelImportStore.
type personRepo struct {
	s *Store
}

func scanPerson(r rowScanner) (Person, error) {
	var (
		p       Person
		created string
	)
	if err := r.Scan(&p.ID, &p.OrgID, &p.Name, &p.Email, &p.Status, &created); err != nil {
		return p, err
	}
	t, err := parseTime(created)
	p.CreatedAt = t
	return p, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func insertPerson(ctx context.Context, q queryer, orgID, stamp string, np NewPerson) (Person, error) {
	status := np.Status
	if status == "" {
		status = StatusActive
	}
	p := Person{
		ID:     uuid.NewString(),
		OrgID:  orgID,
		Name:   strings.TrimSpace(np.Name),
		Email:  normalizeEmail(np.Email),
		Status: status,
	}
	_, err := execQuery(ctx, q, sqlb.Insert("persons").
		Columns(personColumns...).
		Values(p.ID, p.OrgID, p.Name, p.Email, p.Status, stamp))
	if err != nil {
		return p, fmt.Errorf("create person %q: %w", p.Email, err)
	}
	p.CreatedAt, err = parseTime(stamp)
	return p, err
}

func (r *personRepo) Create(ctx context.Context, orgID string, np NewPerson) (*Person, error) {
	p, err := insertPerson(ctx, r.s.db, orgID, r.s.stamp(), np)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personRepo) Get(ctx context.Context, orgID, id string) (*Person, error) {
	p, err := selectOne(ctx, r.s.db, sqlb.Select(personColumns...).
		From(sqlb.Table("persons")).
		Where(entsql.And(entsql.EQ("org_id", orgID), entsql.EQ("id", id))), scanPerson)
	if err != nil {
		return nil, fmt.Errorf("get person %s: %w", id, err)
	}
	return &p, nil
}

func (r *personRepo) GetByEmail(ctx context.Context, orgID, email string) (*Person, error) {
	p, err := selectOne(ctx, r.s.db, sqlb.Select(personColumns...).
		From(sqlb.Table("persons")).
		Where(entsql.And(entsql.EQ("org_id", orgID), entsql.EQ("email", normalizeEmail(email)))), scanPerson)
	if err != nil {
		return nil, fmt.Errorf("get person %q: %w", email, err)
	}
	return &p, nil
}

func (r *personRepo) List(ctx context.Context, orgID string) ([]Person, error) {
	people, err := selectAll(ctx, r.s.db, sqlb.Select(personColumns...).
		From(sqlb.Table("persons")).
		Where(entsql.EQ("org_id", orgID)).
		OrderBy("name"), scanPerson)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return people, nil
}

func (r *personRepo) Update(ctx context.Context, orgID, id string, u PersonUpdate) (*Person, error) {
	upd := sqlb.Update("persons").
		Where(entsql.And(entsql.EQ("org_id", orgID), entsql.EQ("id", id)))
	changed := false
	if u.Name != nil {
		upd.Set("name", strings.TrimSpace(*u.Name))
		changed = true
	}
	if u.Email != nil {
		upd.Set("email", normalizeEmail(*u.Email))
		changed = true
	}
	if u.Status != nil {
		upd.Set("status", *u.Status)
		changed = true
	}
	if changed {
		if err := execAffecting(ctx, r.s.db, upd); err != nil {
			return nil, fmt.Errorf("update person %s: %w", id, err)
		}
	}
	return r.Get(ctx, orgID, id)
}

func (r *personRepo) ExistingEmails(ctx context.Context, orgID string) (map[string]bool, error) {
	emails, err := selectStrings(ctx, r.s.db, sqlb.Select("email").
		From(sqlb.Table("persons")).
		Where(entsql.EQ("org_id", orgID)))
	if err != nil {
		return nil, fmt.Errorf("list person emails: %w", err)
	}
	out := make(map[string]bool, len(emails))
	for _, e := range emails {
		out[normalizeEmail(e)] = true
	}
	return out, nil
}

func (r *personRepo) CreatePeople(ctx context.Context, orgID string, people []NewPerson) ([]Person, error) {
	created := make([]Person, 0, len(people))
	stamp := r.s.stamp()
	err := r.s.withTx(ctx, func(q queryer) error {
		for _, np := range people {
			p, err := insertPerson(ctx, q, orgID, stamp, np)
			if err != nil {
				return err
			}
			created = append(created, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
