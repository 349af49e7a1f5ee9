package catalogue

import (
	"context"
	"fmt"

	"github.com/rtplus/rtplus/internal/store"
)

// Writer is the part of store.CatalogueRepo used by Install.
type Writer interface {
	CreateCapability(ctx context.Context, orgID string, c store.Capability) (*store.Capability, error)
	CreateSkillGroup(ctx context.Context, orgID string, g store.SkillGroup) (*store.SkillGroup, error)
	CreateSkill(ctx context.Context, orgID string, s store.Skill) (*store.Skill, error)
}

// Installed reports what Install created.
type Installed struct {
	Capability *store.Capability
	Groups     int
	Skills     int
}

// Install writes the package into orgID in one transaction: the capability
// first, then groups depth-first, each followed by its skills. Nothing is
// written when any part fails.
func Install(ctx context.Context, repo store.CatalogueRepo, orgID string, pkg *Package) (*Installed, error) {
	if err := pkg.Validate(); err != nil {
		return nil, err
	}
	var out *Installed
	err := repo.Atomically(ctx, func(tx store.CatalogueRepo) error {
		var err error
		out, err = install(ctx, tx, orgID, pkg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func install(ctx context.Context, w Writer, orgID string, pkg *Package) (*Installed, error) {
	capability, err := w.CreateCapability(ctx, orgID, store.Capability{
		Name:        pkg.Capability.Name,
		Description: pkg.Capability.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("install capability: %w", err)
	}
	out := &Installed{Capability: capability}

	createSkills := func(groupID string, skills []SkillDef) error {
		for _, s := range skills {
			_, err := w.CreateSkill(ctx, orgID, store.Skill{
				CapabilityID: capability.ID,
				SkillGroupID: groupID,
				Name:         s.Name,
				Description:  s.Description,
				Frequency:    s.Frequency,
				Optional:     s.Optional,
			})
			if err != nil {
				return fmt.Errorf("install skill %q: %w", s.Name, err)
			}
			out.Skills++
		}
		return nil
	}

	var createGroups func(parentID string, groups []GroupDef) error
	createGroups = func(parentID string, groups []GroupDef) error {
		for _, g := range groups {
			group, err := w.CreateSkillGroup(ctx, orgID, store.SkillGroup{
				CapabilityID: capability.ID,
				ParentID:     parentID,
				Name:         g.Name,
				Description:  g.Description,
			})
			if err != nil {
				return fmt.Errorf("install skill group %q: %w", g.Name, err)
			}
			out.Groups++
			if err := createSkills(group.ID, g.Skills); err != nil {
				return err
			}
			if err := createGroups(group.ID, g.Groups); err != nil {
				return err
			}
		}
		return nil
	}

	if err := createSkills("", pkg.Skills); err != nil {
		return nil, err
	}
	if err := createGroups("", pkg.Groups); err != nil {
		return nil, err
	}
	return out, nil
}
