package currency

import "time"

// DueSoonDays is how close to the due date a skill counts as expiring.
const DueSoonDays = 30

// Status describes a skill's currency for display.
type Status string

const (
	StatusCurrent         Status = "current"
	StatusExpiring        Status = "expiring"
	StatusExpired         Status = "expired"
	StatusNotYetCompetent Status = "not_yet_competent"
	StatusNeverChecked    Status = "never_checked"
)

// State holds the currency of one skill for one person.
type State struct {
	SkillID   string
	Frequency Period

	// LastCompetent is the date of the most recent competent check, zero
	// when there is none.
	LastCompetent time.Time
	// FailedSince is set when a not-yet-competent check is more recent
	// than LastCompetent.
	FailedSince time.Time
}

func (s *State) Checked() bool {
	return !s.LastCompetent.IsZero()
}

// NextDue is the date the next check is required. Zero when never checked.
func (s *State) NextDue() time.Time {
	if !s.Checked() {
		return time.Time{}
	}
	return s.Frequency.AddTo(s.LastCompetent)
}

// IsDue returns true once now reaches the due date, or when the skill has
// never been checked.
func (s *State) IsDue(now time.Time) bool {
	if !s.Checked() {
		return true
	}
	return !day(now).Before(s.NextDue())
}

// OverdueDays returns how many whole days past due the skill is. Returns 0
// if not yet due or never checked.
func (s *State) OverdueDays(now time.Time) int {
	if !s.Checked() || !s.IsDue(now) {
		return 0
	}
	return int(day(now).Sub(s.NextDue()).Hours() / 24)
}

// DaysUntilDue returns the number of whole days until the next check.
// Returns 0 if already due.
func (s *State) DaysUntilDue(now time.Time) int {
	if s.IsDue(now) {
		return 0
	}
	return int(s.NextDue().Sub(day(now)).Hours() / 24)
}

func (s *State) Status(now time.Time) Status {
	switch {
	case !s.FailedSince.IsZero():
		return StatusNotYetCompetent
	case !s.Checked():
		return StatusNeverChecked
	case s.IsDue(now):
		return StatusExpired
	case s.DaysUntilDue(now) <= DueSoonDays:
		return StatusExpiring
	default:
		return StatusCurrent
	}
}

// day truncates t to midnight UTC so comparisons work on calendar dates.
func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
