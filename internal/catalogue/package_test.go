package catalogue

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtplus/rtplus/internal/store"
)

const ropePackage = `
capability:
  name: Rope Rescue
  description: Technical rope work
skills:
  - name: Rope care
groups:
  - name: Knots
    skills:
      - name: Figure eight
      - name: Double fisherman's
        frequency: P6M
    groups:
      - name: Hitches
        skills:
          - name: Prusik
            optional: true
  - name: Anchors
    skills:
      - name: Bolt anchor
`

func TestLoadPackage(t *testing.T) {
	pkg, err := LoadPackage(strings.NewReader(ropePackage))
	require.NoError(t, err)
	assert.Equal(t, "Rope Rescue", pkg.Capability.Name)
	assert.Equal(t, 5, pkg.SkillCount())
	require.Len(t, pkg.Groups, 2)
	assert.True(t, pkg.Groups[0].Groups[0].Skills[0].Optional)
}

func TestLoadPackage_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "", "empty skill package"},
		{"unknown key", "capability:\n  name: X\n  colour: red\n", "colour"},
		{"missing capability name", "skills:\n  - name: A\n", "capability.name is required"},
		{"unnamed skill", "capability:\n  name: X\nskills:\n  - description: d\n", "package.skills[0]: name is required"},
		{"unnamed group", "capability:\n  name: X\ngroups:\n  - skills: []\n", "package.groups[0]: name is required"},
		{"word frequency", "capability:\n  name: X\nskills:\n  - name: A\n    frequency: yearly\n", "package.skills[0]: invalid frequency"},
		{
			"zero frequency in group",
			"capability:\n  name: X\ngroups:\n  - name: G\n    skills:\n      - name: A\n        frequency: P0D\n",
			"package.groups[0].skills[0]: invalid frequency",
		},
		{
			"duplicate across groups",
			"capability:\n  name: X\nskills:\n  - name: Knot\ngroups:\n  - name: G\n    skills:\n      - name: knot\n",
			`skill "knot" already defined at package.skills[0]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPackage(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInstall(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "catalogue.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	org, err := s.Organizations().Create(ctx, "Alpha", "alpha", false)
	require.NoError(t, err)

	pkg, err := LoadPackage(strings.NewReader(ropePackage))
	require.NoError(t, err)

	installed, err := Install(ctx, s.Catalogue(), org.ID, pkg)
	require.NoError(t, err)
	assert.Equal(t, 3, installed.Groups)
	assert.Equal(t, 5, installed.Skills)

	skills, err := s.Catalogue().ListSkills(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, skills, 5)

	byName := make(map[string]store.Skill)
	for _, sk := range skills {
		byName[sk.Name] = sk
	}
	assert.Empty(t, byName["Rope care"].SkillGroupID)
	assert.Equal(t, "P6M", byName["Double fisherman's"].Frequency)
	assert.Equal(t, store.DefaultFrequency, byName["Figure eight"].Frequency)
	assert.True(t, byName["Prusik"].Optional)

	groups, err := s.Catalogue().ListSkillGroups(ctx, org.ID)
	require.NoError(t, err)
	var hitches, knots store.SkillGroup
	for _, g := range groups {
		switch g.Name {
		case "Hitches":
			hitches = g
		case "Knots":
			knots = g
		}
	}
	assert.Equal(t, knots.ID, hitches.ParentID)
	assert.Equal(t, hitches.ID, byName["Prusik"].SkillGroupID)

	// Installing the same capability twice conflicts.
	_, err = Install(ctx, s.Catalogue(), org.ID, pkg)
	assert.ErrorIs(t, err, store.ErrConflict)
}

// failingCatalogue fails CreateSkill for one skill name, inside the
// transaction Install opens.
type failingCatalogue struct {
	store.CatalogueRepo
	failOn string
}

func (f failingCatalogue) Atomically(ctx context.Context, fn func(store.CatalogueRepo) error) error {
	return f.CatalogueRepo.Atomically(ctx, func(tx store.CatalogueRepo) error {
		return fn(failingCatalogue{CatalogueRepo: tx, failOn: f.failOn})
	})
}

func (f failingCatalogue) CreateSkill(ctx context.Context, orgID string, sk store.Skill) (*store.Skill, error) {
	if sk.Name == f.failOn {
		return nil, errors.New("disk full")
	}
	return f.CatalogueRepo.CreateSkill(ctx, orgID, sk)
}

func TestInstall_FailureWritesNothing(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "catalogue.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	org, err := s.Organizations().Create(ctx, "Alpha", "alpha", false)
	require.NoError(t, err)
	pkg, err := LoadPackage(strings.NewReader(ropePackage))
	require.NoError(t, err)

	_, err = Install(ctx, failingCatalogue{CatalogueRepo: s.Catalogue(), failOn: "Prusik"}, org.ID, pkg)
	require.ErrorContains(t, err, `install skill "Prusik": disk full`)

	caps, err := s.Catalogue().ListCapabilities(ctx, org.ID)
	require.NoError(t, err)
	assert.Empty(t, caps)
	groups, err := s.Catalogue().ListSkillGroups(ctx, org.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)
	skills, err := s.Catalogue().ListSkills(ctx, org.ID)
	require.NoError(t, err)
	assert.Empty(t, skills)

	// A retry after the failure is not blocked by a half-written capability.
	installed, err := Install(ctx, s.Catalogue(), org.ID, pkg)
	require.NoError(t, err)
	assert.Equal(t, 5, installed.Skills)
}
