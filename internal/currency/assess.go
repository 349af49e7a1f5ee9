package currency

import (
	"fmt"
	"time"

	"github.com/rtplus/rtplus/internal/store"
)

const dateLayout = "2006-01-02"

// Row is one skill's currency as returned by the API and shown on the
// person page.
type Row struct {
	SkillID       string `json:"skillId"`
	Skill         string `json:"skill"`
	Optional      bool   `json:"optional"`
	Frequency     string `json:"frequency"`
	LastCompetent string `json:"lastCompetent,omitempty"`
	NextDue       string `json:"nextDue,omitempty"`
	Status        Status `json:"status"`
	DaysUntilDue  int    `json:"daysUntilDue"`
	OverdueDays   int    `json:"overdueDays"`
}

// Assess builds a currency row for every active skill. Checks must all
// belong to the same assessee. Checks on skills not in the list are ignored.
func Assess(skills []store.Skill, checks []store.SkillCheck, now time.Time) ([]Row, error) {
	states := make(map[string]*State, len(skills))
	for _, sk := range skills {
		if sk.Status != store.StatusActive {
			continue
		}
		freq, err := ParsePeriod(sk.Frequency)
		if err != nil {
			return nil, fmt.Errorf("skill %s: %w", sk.Name, err)
		}
		states[sk.ID] = &State{SkillID: sk.ID, Frequency: freq}
	}

	for _, c := range checks {
		st, ok := states[c.SkillID]
		if !ok {
			continue
		}
		on, err := time.Parse(dateLayout, c.Date)
		if err != nil {
			return nil, fmt.Errorf("check %s: invalid date %q", c.ID, c.Date)
		}
		switch c.Result {
		case store.ResultCompetent:
			if !on.Before(st.LastCompetent) {
				st.LastCompetent = on
			}
			if !st.FailedSince.IsZero() && !on.Before(st.FailedSince) {
				st.FailedSince = time.Time{}
			}
		case store.ResultNotYetCompetent:
			if on.After(st.LastCompetent) && on.After(st.FailedSince) {
				st.FailedSince = on
			}
		}
	}

	rows := make([]Row, 0, len(states))
	for _, sk := range skills {
		st, ok := states[sk.ID]
		if !ok {
			continue
		}
		row := Row{
			SkillID:      sk.ID,
			Skill:        sk.Name,
			Optional:     sk.Optional,
			Frequency:    st.Frequency.String(),
			Status:       st.Status(now),
			DaysUntilDue: st.DaysUntilDue(now),
			OverdueDays:  st.OverdueDays(now),
		}
		if st.Checked() {
			row.LastCompetent = st.LastCompetent.Format(dateLayout)
			row.NextDue = st.NextDue().Format(dateLayout)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Summary counts rows by status.
func Summary(rows []Row) map[Status]int {
	out := make(map[Status]int)
	for _, r := range rows {
		out[r.Status]++
	}
	return out
}
