package store

import (
	"context"
	"time"
)

// Record statuses shared by teams, people and catalogue entries.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusArchived = "Archived"
)

// Lifecycle statuses for competency assessments and skill check sessions.
const (
	SessionDraft     = "Draft"
	SessionScheduled = "Scheduled"
	SessionComplete  = "Complete"
	SessionCancelled = "Cancelled"
)

// Skill check results.
const (
	ResultCompetent       = "Competent"
	ResultNotYetCompetent = "NotYetCompetent"
	ResultNotTested       = "NotTested"
)

// Team membership roles.
const (
	RoleMember = "Member"
	RoleLeader = "Leader"
)

// Organization is a tenant. Every other record belongs to exactly one.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Sandbox   bool      `json:"sandbox"`
	CreatedAt time.Time `json:"createdAt"`
}

type Person struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"orgId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewPerson is the input for creating a person.
type NewPerson struct {
	Name   string
	Email  string
	Status string
}

// PersonUpdate carries optional field changes; nil fields are left alone.
type PersonUpdate struct {
	Name   *string
	Email  *string
	Status *string
}

type Team struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"orgId"`
	Name      string    `json:"name"`
	ShortName string    `json:"shortName"`
	Color     string    `json:"color"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// TeamUpdate carries optional field changes; nil fields are left alone.
type TeamUpdate struct {
	Name      *string
	ShortName *string
	Color     *string
	Status    *string
}

// TeamMember is a membership joined with the member's name.
type TeamMember struct {
	TeamID     string    `json:"teamId"`
	PersonID   string    `json:"personId"`
	PersonName string    `json:"personName"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Capability struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"orgId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SkillGroup groups skills within a capability. Groups may nest.
type SkillGroup struct {
	ID           string    `json:"id"`
	OrgID        string    `json:"orgId"`
	CapabilityID string    `json:"capabilityId"`
	ParentID     string    `json:"parentId,omitempty"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Skill struct {
	ID           string    `json:"id"`
	OrgID        string    `json:"orgId"`
	CapabilityID string    `json:"capabilityId"`
	SkillGroupID string    `json:"skillGroupId,omitempty"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Frequency    string    `json:"frequency"`
	Optional     bool      `json:"optional"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CompetencyAssessment is a scheduled assessment event. Date is YYYY-MM-DD.
type CompetencyAssessment struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"orgId"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	Location  string    `json:"location"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// CompetencyAssessmentWithRelations widens an assessment with the ids of
// the people being assessed and the skills covered.
type CompetencyAssessmentWithRelations struct {
	CompetencyAssessment
	AssesseeIDs []string `json:"assesseeIds"`
	SkillIDs    []string `json:"skillIds"`
}

// SkillCheckSession is a session in which an assessor checks skills.
// Date is YYYY-MM-DD.
type SkillCheckSession struct {
	ID         string    `json:"id"`
	OrgID      string    `json:"orgId"`
	Name       string    `json:"name"`
	Date       string    `json:"date"`
	AssessorID string    `json:"assessorId"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SkillCheckSessionWithRelations widens a session with the ids of the
// people being assessed and the skills covered.
type SkillCheckSessionWithRelations struct {
	SkillCheckSession
	AssesseeIDs []string `json:"assesseeIds"`
	SkillIDs    []string `json:"skillIds"`
}

// SkillCheck records one assessor's verdict on one person for one skill.
type SkillCheck struct {
	ID         string    `json:"id"`
	OrgID      string    `json:"orgId"`
	SessionID  string    `json:"sessionId,omitempty"`
	SkillID    string    `json:"skillId"`
	AssessorID string    `json:"assessorId"`
	AssesseeID string    `json:"assesseeId"`
	Result     string    `json:"result"`
	Notes      string    `json:"notes"`
	Date       string    `json:"date"`
	CreatedAt  time.Time `json:"createdAt"`
}

// OrganizationRepo manages tenants.
type OrganizationRepo interface {
	Create(ctx context.Context, name, slug string, sandbox bool) (*Organization, error)
	Get(ctx context.Context, id string) (*Organization, error)
	GetBySlug(ctx context.Context, slug string) (*Organization, error)
	List(ctx context.Context) ([]Organization, error)

	// ListForEmail returns the organizations in which a person with the
	// given email exists, ordered by name.
	ListForEmail(ctx context.Context, email string) ([]Organization, error)
}

// PersonRepo manages personnel within an organization.
type PersonRepo interface {
	Create(ctx context.Context, orgID string, p NewPerson) (*Person, error)
	Get(ctx context.Context, orgID, id string) (*Person, error)
	GetByEmail(ctx context.Context, orgID, email string) (*Person, error)
	List(ctx context.Context, orgID string) ([]Person, error)
	Update(ctx context.Context, orgID, id string, u PersonUpdate) (*Person, error)
}

// PersonnelImportStore is the persistence surface of the personnel importer.
type PersonnelImportStore interface {
	// ExistingEmails returns the lowercased emails already used in orgID.
	ExistingEmails(ctx context.Context, orgID string) (map[string]bool, error)

	// CreatePeople inserts all people in a single transaction.
	CreatePeople(ctx context.Context, orgID string, people []NewPerson) ([]Person, error)
}

// TeamRepo manages teams and their memberships.
type TeamRepo interface {
	Create(ctx context.Context, orgID string, t Team) (*Team, error)
	Get(ctx context.Context, orgID, id string) (*Team, error)
	List(ctx context.Context, orgID string) ([]Team, error)
	Update(ctx context.Context, orgID, id string, u TeamUpdate) (*Team, error)
	Delete(ctx context.Context, orgID, id string) error

	AddMember(ctx context.Context, orgID, teamID, personID, role string) error
	RemoveMember(ctx context.Context, orgID, teamID, personID string) error
	Members(ctx context.Context, orgID, teamID string) ([]TeamMember, error)
}

// CatalogueRepo manages capabilities, skill groups and skills.
type CatalogueRepo interface {
	CreateCapability(ctx context.Context, orgID string, c Capability) (*Capability, error)
	GetCapability(ctx context.Context, orgID, id string) (*Capability, error)
	ListCapabilities(ctx context.Context, orgID string) ([]Capability, error)

	CreateSkillGroup(ctx context.Context, orgID string, g SkillGroup) (*SkillGroup, error)
	ListSkillGroups(ctx context.Context, orgID string) ([]SkillGroup, error)

	CreateSkill(ctx context.Context, orgID string, s Skill) (*Skill, error)
	GetSkill(ctx context.Context, orgID, id string) (*Skill, error)
	ListSkills(ctx context.Context, orgID string) ([]Skill, error)

	// Atomically runs fn with a repo bound to one transaction. Every write
	// made through it commits together, or none does when fn fails.
	Atomically(ctx context.Context, fn func(CatalogueRepo) error) error
}

// AssessmentRepo manages competency assessments, skill check sessions and
// the skill checks recorded in them.
type AssessmentRepo interface {
	CreateAssessment(ctx context.Context, orgID string, a CompetencyAssessmentWithRelations) (*CompetencyAssessmentWithRelations, error)
	GetAssessment(ctx context.Context, orgID, id string) (*CompetencyAssessmentWithRelations, error)
	ListAssessments(ctx context.Context, orgID string) ([]CompetencyAssessment, error)

	CreateSession(ctx context.Context, orgID string, s SkillCheckSessionWithRelations) (*SkillCheckSessionWithRelations, error)
	GetSession(ctx context.Context, orgID, id string) (*SkillCheckSessionWithRelations, error)
	ListSessions(ctx context.Context, orgID string) ([]SkillCheckSession, error)

	// RecordCheck stores a skill check. When the check belongs to a session,
	// the skill and assessee must be part of that session.
	RecordCheck(ctx context.Context, orgID string, c SkillCheck) (*SkillCheck, error)
	ListChecks(ctx context.Context, orgID, sessionID string) ([]SkillCheck, error)
	ListChecksForPerson(ctx context.Context, orgID, personID string) ([]SkillCheck, error)
}
