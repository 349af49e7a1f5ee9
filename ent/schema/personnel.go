package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

type Person struct {
	ent.Schema
}

func (Person) Mixin() []ent.Mixin {
	return []ent.Mixin{TenantMixin{}}
}

func (Person) Fields() []ent.Field {
	return []ent.Field{
		field.String("name").
			NotEmpty(),
		field.String("email").
			NotEmpty().
			Comment("Unique within the organization; links a login to a person"),
		field.Enum("status").
			Values(recordStatuses...).
			Default("Active"),
	}
}

func (Person) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("org_id", "email").Unique(),
		index.Fields("email"),
	}
}

func (Person) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "persons"},
	}
}

type Team struct {
	ent.Schema
}

func (Team) Mixin() []ent.Mixin {
	return []ent.Mixin{TenantMixin{}}
}

func (Team) Fields() []ent.Field {
	return []ent.Field{
		field.String("name").
			NotEmpty(),
		field.String("short_name").
			Default(""),
		field.String("color").
			Default("").
			Comment("Hex colour used for the team badge"),
		field.Enum("status").
			Values(recordStatuses...).
			Default("Active"),
	}
}

func (Team) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("org_id", "name").Unique(),
	}
}

func (Team) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "teams"},
	}
}

// TeamMembership joins a person to a team. It is keyed by the pair and
// carries no tenant column of its own.
type TeamMembership struct {
	ent.Schema
}

func (TeamMembership) Fields() []ent.Field {
	return []ent.Field{
		field.String("team_id").
			NotEmpty().
			Immutable(),
		field.String("person_id").
			NotEmpty().
			Immutable(),
		field.Enum("role").
			Values("Member", "Leader").
			Default("Member"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (TeamMembership) Annotations() []schema.Annotation {
	return []schema.Annotation{
		field.ID("team_id", "person_id"),
		entsql.Annotation{Table: "team_memberships"},
	}
}
