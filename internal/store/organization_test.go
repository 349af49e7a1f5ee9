package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizations_CreateGetList(t *testing.T) {
	s := openTestStore(t)
	repo := s.Organizations()
	ctx := context.Background()

	org, err := repo.Create(ctx, "Wellington SAR", " WSAR ", true)
	require.NoError(t, err)
	assert.Equal(t, "wsar", org.Slug)
	assert.True(t, org.Sandbox)
	assert.NotEmpty(t, org.ID)

	got, err := repo.GetBySlug(ctx, "WSAR")
	require.NoError(t, err)
	assert.Equal(t, org.ID, got.ID)

	_, err = repo.Create(ctx, "Duplicate", "wsar", false)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Create(ctx, "Alpine Rescue", "alpine", false)
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpine Rescue", all[0].Name)
}

func TestOrganizations_ListForEmail(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := createTestOrg(t, s, "alpha")
	b := createTestOrg(t, s, "bravo")
	createTestOrg(t, s, "charlie")

	for _, org := range []*Organization{a, b} {
		_, err := s.People().Create(ctx, org.ID, NewPerson{Name: "Jane Doe", Email: "Jane@Example.com"})
		require.NoError(t, err)
	}

	orgs, err := s.Organizations().ListForEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "alpha", orgs[0].Slug)
	assert.Equal(t, "bravo", orgs[1].Slug)

	none, err := s.Organizations().ListForEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}
