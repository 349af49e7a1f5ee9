package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeams_CRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	org := createTestOrg(t, s, "alpha")
	repo := s.Teams()

	team, err := repo.Create(ctx, org.ID, Team{Name: "Rope Rescue", ShortName: "RR", Color: "#ff0000"})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, team.Status)

	_, err = repo.Create(ctx, org.ID, Team{Name: "Rope Rescue"})
	assert.ErrorIs(t, err, ErrConflict)

	name := "Technical Rope Rescue"
	updated, err := repo.Update(ctx, org.ID, team.ID, TeamUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "RR", updated.ShortName)

	unchanged, err := repo.Update(ctx, org.ID, team.ID, TeamUpdate{})
	require.NoError(t, err)
	assert.Equal(t, name, unchanged.Name)

	teams, err := repo.List(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)

	require.NoError(t, repo.Delete(ctx, org.ID, team.ID))
	assert.ErrorIs(t, repo.Delete(ctx, org.ID, team.ID), ErrNotFound)
}

func TestTeams_Members(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	org := createTestOrg(t, s, "alpha")
	other := createTestOrg(t, s, "bravo")

	team, err := s.Teams().Create(ctx, org.ID, Team{Name: "Alpha Team"})
	require.NoError(t, err)
	zed, err := s.People().Create(ctx, org.ID, NewPerson{Name: "Zed", Email: "zed@example.com"})
	require.NoError(t, err)
	amy, err := s.People().Create(ctx, org.ID, NewPerson{Name: "Amy", Email: "amy@example.com"})
	require.NoError(t, err)
	outsider, err := s.People().Create(ctx, other.ID, NewPerson{Name: "Out", Email: "out@example.com"})
	require.NoError(t, err)

	repo := s.Teams()
	require.NoError(t, repo.AddMember(ctx, org.ID, team.ID, zed.ID, RoleLeader))
	require.NoError(t, repo.AddMember(ctx, org.ID, team.ID, amy.ID, ""))

	assert.ErrorIs(t, repo.AddMember(ctx, org.ID, team.ID, amy.ID, ""), ErrConflict)
	assert.ErrorIs(t, repo.AddMember(ctx, org.ID, team.ID, outsider.ID, ""), ErrInvalidReference)
	assert.ErrorIs(t, repo.AddMember(ctx, org.ID, "missing", amy.ID, ""), ErrNotFound)

	members, err := repo.Members(ctx, org.ID, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Amy", members[0].PersonName)
	assert.Equal(t, RoleMember, members[0].Role)
	assert.Equal(t, "Zed", members[1].PersonName)
	assert.Equal(t, RoleLeader, members[1].Role)

	_, err = repo.Members(ctx, other.ID, team.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.RemoveMember(ctx, org.ID, team.ID, zed.ID))
	assert.ErrorIs(t, repo.RemoveMember(ctx, org.ID, team.ID, zed.ID), ErrNotFound)

	// Deleting the team cascades to memberships.
	require.NoError(t, repo.Delete(ctx, org.ID, team.ID))
	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM team_memberships`).Scan(&n))
	assert.Zero(t, n)
}
