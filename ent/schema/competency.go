package schema

import (
	"regexp"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

var calendarDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// CompetencyAssessment is a planned assessment event. Assessees and skills
// live in the competency_assessment_assessees and competency_assessment_skills
// join tables.
type CompetencyAssessment struct {
	ent.Schema
}

func (CompetencyAssessment) Mixin() []ent.Mixin {
	return []ent.Mixin{TenantMixin{}}
}

func (CompetencyAssessment) Fields() []ent.Field {
	return []ent.Field{
		field.String("name").
			NotEmpty(),
		field.String("date").
			Match(calendarDate),
		field.String("location").
			Default(""),
		field.Enum("status").
			Values(sessionStatuses...).
			Default("Draft"),
	}
}

func (CompetencyAssessment) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "competency_assessments"},
	}
}

type SkillCheckSession struct {
	ent.Schema
}

func (SkillCheckSession) Mixin() []ent.Mixin {
	return []ent.Mixin{TenantMixin{}}
}

func (SkillCheckSession) Fields() []ent.Field {
	return []ent.Field{
		field.String("name").
			NotEmpty(),
		field.String("date").
			Match(calendarDate),
		field.String("assessor_id").
			NotEmpty(),
		field.Enum("status").
			Values(sessionStatuses...).
			Default("Draft"),
	}
}

func (SkillCheckSession) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "skill_check_sessions"},
	}
}

// SkillCheck records one assessee's result for one skill. Checks made
// outside a session have no session_id.
type SkillCheck struct {
	ent.Schema
}

func (SkillCheck) Mixin() []ent.Mixin {
	return []ent.Mixin{TenantMixin{}}
}

func (SkillCheck) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			Optional().
			Nillable(),
		field.String("skill_id").
			NotEmpty(),
		field.String("assessor_id").
			NotEmpty(),
		field.String("assessee_id").
			NotEmpty(),
		field.Enum("result").
			Values("Competent", "NotYetCompetent", "NotTested"),
		field.String("notes").
			Default(""),
		field.String("date").
			Match(calendarDate),
	}
}

func (SkillCheck) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("assessee_id"),
	}
}

func (SkillCheck) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "skill_checks"},
	}
}
