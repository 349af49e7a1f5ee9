package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// TenantMixin provides the key, owning organization and creation time
// shared by every tenant scoped record.
type TenantMixin struct {
	mixin.Schema
}

func (TenantMixin) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable().
			Comment("UUID assigned by the store"),
		field.String("org_id").
			NotEmpty().
			Immutable().
			Comment("Owning organization"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (TenantMixin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("org_id"),
	}
}

// recordStatuses are the statuses shared by teams, people and catalogue entries.
var recordStatuses = []string{"Active", "Inactive", "Archived"}

// sessionStatuses are the lifecycle statuses of assessments and check sessions.
var sessionStatuses = []string{"Draft", "Scheduled", "Complete", "Cancelled"}
