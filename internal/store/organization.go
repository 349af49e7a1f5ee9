package store

import (
	"context"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var organizationColumns = []string{"id", "name", "slug", "sandbox", "created_at"}

type organizationRepo struct {
	s *Store
}

func scanOrganization(r rowScanner) (Organization, error) {
	var (
		o       Organization
		sandbox int
		created string
	)
	if err := r.Scan(&o.ID, &o.Name, &o.Slug, &sandbox, &created); err != nil {
		return o, err
	}
	o.Sandbox = sandbox != 0
	t, err := parseTime(created)
	o.CreatedAt = t
	return o, err
}

func (r *organizationRepo) Create(ctx context.Context, name, slug string, sandbox bool) (*Organization, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	id := uuid.NewString()
	_, err := execQuery(ctx, r.s.db, sqlb.Insert("organizations").
		Columns(organizationColumns...).
		Values(id, name, slug, boolInt(sandbox), r.s.stamp()))
	if err != nil {
		return nil, fmt.Errorf("create organization %q: %w", slug, err)
	}
	return r.Get(ctx, id)
}

func (r *organizationRepo) Get(ctx context.Context, id string) (*Organization, error) {
	o, err := selectOne(ctx, r.s.db, sqlb.Select(organizationColumns...).
		From(sqlb.Table("organizations")).
		Where(entsql.EQ("id", id)), scanOrganization)
	if err != nil {
		return nil, fmt.Errorf("get organization %s: %w", id, err)
	}
	return &o, nil
}

func (r *organizationRepo) GetBySlug(ctx context.Context, slug string) (*Organization, error) {
	o, err := selectOne(ctx, r.s.db, sqlb.Select(organizationColumns...).
		From(sqlb.Table("organizations")).
		Where(entsql.EQ("slug", strings.ToLower(slug))), scanOrganization)
	if err != nil {
		return nil, fmt.Errorf("get organization %q: %w", slug, err)
	}
	return &o, nil
}

func (r *organizationRepo) List(ctx context.Context) ([]Organization, error) {
	orgs, err := selectAll(ctx, r.s.db, sqlb.Select(organizationColumns...).
		From(sqlb.Table("organizations")).
		OrderBy("name"), scanOrganization)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

func (r *organizationRepo) ListForEmail(ctx context.Context, email string) ([]Organization, error) {
	members := sqlb.Select("org_id").
		From(sqlb.Table("persons")).
		Where(entsql.EQ("email", strings.ToLower(email)))
	orgs, err := selectAll(ctx, r.s.db, sqlb.Select(organizationColumns...).
		From(sqlb.Table("organizations")).
		Where(entsql.In("id", members)).
		OrderBy("name"), scanOrganization)
	if err != nil {
		return nil, fmt.Errorf("list organizations for %q: %w", email, err)
	}
	return orgs, nil
}
