// Package catalogue loads skill packages: a capability with its skill
// groups and skills described in YAML.
package catalogue

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rtplus/rtplus/internal/currency"
)

// Package is a capability together with its skill tree.
type Package struct {
	Capability CapabilityDef `yaml:"capability"`
	Groups     []GroupDef    `yaml:"groups"`
	Skills     []SkillDef    `yaml:"skills"`
}

type CapabilityDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// GroupDef is a skill group; groups may nest.
type GroupDef struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Groups      []GroupDef `yaml:"groups"`
	Skills      []SkillDef `yaml:"skills"`
}

type SkillDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Frequency   string `yaml:"frequency"`
	Optional    bool   `yaml:"optional"`
}

// LoadPackage decodes and validates a skill package. Unknown keys are
// rejected.
func LoadPackage(r io.Reader) (*Package, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var pkg Package
	if err := dec.Decode(&pkg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty skill package")
		}
		return nil, fmt.Errorf("decode skill package: %w", err)
	}
	if err := pkg.Validate(); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// Validate checks that every entry is named, that skill names are unique
// within the capability and that frequencies are valid periods. An empty
// frequency gets the store default.
func (p *Package) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Capability.Name) == "" {
		errs = append(errs, errors.New("capability.name is required"))
	}

	seen := make(map[string]string)
	var walkSkills func(path string, skills []SkillDef)
	walkSkills = func(path string, skills []SkillDef) {
		for i, s := range skills {
			name := strings.TrimSpace(s.Name)
			where := fmt.Sprintf("%s.skills[%d]", path, i)
			if name == "" {
				errs = append(errs, fmt.Errorf("%s: name is required", where))
				continue
			}
			if s.Frequency != "" {
				if _, err := currency.ParsePeriod(s.Frequency); err != nil {
					errs = append(errs, fmt.Errorf("%s: invalid frequency: %w", where, err))
				}
			}
			key := strings.ToLower(name)
			if prev, dup := seen[key]; dup {
				errs = append(errs, fmt.Errorf("%s: skill %q already defined at %s", where, name, prev))
				continue
			}
			seen[key] = where
		}
	}
	var walkGroups func(path string, groups []GroupDef)
	walkGroups = func(path string, groups []GroupDef) {
		for i, g := range groups {
			where := fmt.Sprintf("%s.groups[%d]", path, i)
			if strings.TrimSpace(g.Name) == "" {
				errs = append(errs, fmt.Errorf("%s: name is required", where))
			}
			walkSkills(where, g.Skills)
			walkGroups(where, g.Groups)
		}
	}

	walkSkills("package", p.Skills)
	walkGroups("package", p.Groups)
	return errors.Join(errs...)
}

// SkillCount returns the number of skills in the package.
func (p *Package) SkillCount() int {
	var count func(groups []GroupDef) int
	count = func(groups []GroupDef) int {
		n := 0
		for _, g := range groups {
			n += len(g.Skills) + count(g.Groups)
		}
		return n
	}
	return len(p.Skills) + count(p.Groups)
}
