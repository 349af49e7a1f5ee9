// Package currency works out whether a person's skills are still current,
// based on each skill's check frequency and the checks recorded against them.
package currency

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var periodPattern = regexp.MustCompile(`^P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)W)?(?:(\d+)D)?$`)

// Period is an ISO 8601 calendar period limited to years, months, weeks and
// days, for example P1Y or P6M2W.
type Period struct {
	Years  int
	Months int
	Weeks  int
	Days   int
}

// ParsePeriod parses an ISO 8601 period. A bare "P" is rejected.
func ParsePeriod(s string) (Period, error) {
	m := periodPattern.FindStringSubmatch(s)
	if m == nil || s == "P" {
		return Period{}, fmt.Errorf("invalid period %q", s)
	}
	var p Period
	for i, dst := range []*int{&p.Years, &p.Months, &p.Weeks, &p.Days} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
		}
		*dst = n
	}
	if p.IsZero() {
		return Period{}, fmt.Errorf("invalid period %q: zero length", s)
	}
	return p, nil
}

func (p Period) IsZero() bool {
	return p == Period{}
}

// AddTo returns t moved forward by the period, using calendar arithmetic.
func (p Period) AddTo(t time.Time) time.Time {
	return t.AddDate(p.Years, p.Months, p.Weeks*7+p.Days)
}

func (p Period) String() string {
	if p.IsZero() {
		return "P0D"
	}
	var b strings.Builder
	b.WriteByte('P')
	for _, part := range []struct {
		n    int
		unit byte
	}{{p.Years, 'Y'}, {p.Months, 'M'}, {p.Weeks, 'W'}, {p.Days, 'D'}} {
		if part.n > 0 {
			b.WriteString(strconv.Itoa(part.n))
			b.WriteByte(part.unit)
		}
	}
	return b.String()
}
