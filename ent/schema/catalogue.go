package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/rtplus/rtplus/internal/currency"
)

func validFrequency(s string) error {
	_, err := currency.ParsePeriod(s)
	return err
}

type Capability struct {
	ent.Schema
}

func (Capability) Mixin() []ent.Mixin {
	return []ent.Mixin{TenantMixin{}}
}

func (Capability) Fields() []ent.Field {
	return []ent.Field{
		field.String("name").
			NotEmpty(),
		field.String("description").
			Default(""),
		field.Enum("status").
			Values(recordStatuses...).
			Default("Active"),
	}
}

func (Capability) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("org_id", "name").Unique(),
	}
}

func (Capability) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "capabilities"},
	}
}

// SkillGroup groups skills inside a capability. Groups nest through parent_id.
type SkillGroup struct {
	ent.Schema
}

func (SkillGroup) Mixin() []ent.Mixin {
	return []ent.Mixin{TenantMixin{}}
}

func (SkillGroup) Fields() []ent.Field {
	return []ent.Field{
		field.String("capability_id").
			NotEmpty(),
		field.String("parent_id").
			Optional().
			Nillable(),
		field.String("name").
			NotEmpty(),
		field.String("description").
			Default(""),
		field.Enum("status").
			Values(recordStatuses...).
			Default("Active"),
	}
}

func (SkillGroup) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "skill_groups"},
	}
}

type Skill struct {
	ent.Schema
}

func (Skill) Mixin() []ent.Mixin {
	return []ent.Mixin{TenantMixin{}}
}

func (Skill) Fields() []ent.Field {
	return []ent.Field{
		field.String("capability_id").
			NotEmpty(),
		field.String("skill_group_id").
			Optional().
			Nillable(),
		field.String("name").
			NotEmpty(),
		field.String("description").
			Default(""),
		field.String("frequency").
			Validate(validFrequency).
			Default("P1Y").
			Comment("ISO 8601 period between required checks"),
		field.Bool("optional").
			Default(false),
		field.Enum("status").
			Values(recordStatuses...).
			Default("Active"),
	}
}

func (Skill) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("capability_id", "name").Unique(),
	}
}

func (Skill) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "skills"},
	}
}
