package schema

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtplus/rtplus/internal/store"
)

var all = []ent.Interface{
	Organization{},
	Person{},
	Team{},
	TeamMembership{},
	Capability{},
	SkillGroup{},
	Skill{},
	CompetencyAssessment{},
	SkillCheckSession{},
	SkillCheck{},
}

func tableName(t *testing.T, s ent.Interface) string {
	t.Helper()
	for _, a := range s.Annotations() {
		if ann, ok := a.(entsql.Annotation); ok && ann.Table != "" {
			return ann.Table
		}
	}
	t.Fatalf("%T has no table annotation", s)
	return ""
}

func fieldNames(s ent.Interface) []string {
	var names []string
	for _, m := range s.Mixin() {
		for _, f := range m.Fields() {
			names = append(names, f.Descriptor().Name)
		}
	}
	for _, f := range s.Fields() {
		names = append(names, f.Descriptor().Name)
	}
	return names
}

func columns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%q)", table))
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestSchemasMatchMigrations(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "schema.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	for _, s := range all {
		table := tableName(t, s)
		t.Run(table, func(t *testing.T) {
			cols := columns(t, st.DB(), table)
			require.NotEmpty(t, cols, "table %s missing from migrations", table)
			assert.ElementsMatch(t, cols, fieldNames(s))
		})
	}
}

func enumValues(t *testing.T, s ent.Interface, name string) []string {
	t.Helper()
	for _, f := range s.Fields() {
		d := f.Descriptor()
		if d.Name != name {
			continue
		}
		var vals []string
		for _, e := range d.Enums {
			vals = append(vals, e.V)
		}
		return vals
	}
	t.Fatalf("%T has no field %q", s, name)
	return nil
}

func TestEnumsMatchStoreConstants(t *testing.T) {
	records := []string{store.StatusActive, store.StatusInactive, store.StatusArchived}
	sessions := []string{store.SessionDraft, store.SessionScheduled, store.SessionComplete, store.SessionCancelled}

	for _, s := range []ent.Interface{Person{}, Team{}, Capability{}, SkillGroup{}, Skill{}} {
		assert.Equal(t, records, enumValues(t, s, "status"), "%T", s)
	}
	for _, s := range []ent.Interface{CompetencyAssessment{}, SkillCheckSession{}} {
		assert.Equal(t, sessions, enumValues(t, s, "status"), "%T", s)
	}
	assert.Equal(t, []string{store.RoleMember, store.RoleLeader}, enumValues(t, TeamMembership{}, "role"))
	assert.Equal(t,
		[]string{store.ResultCompetent, store.ResultNotYetCompetent, store.ResultNotTested},
		enumValues(t, SkillCheck{}, "result"))
}

func TestFrequencyValidation(t *testing.T) {
	for in, ok := range map[string]bool{
		"P1Y":   true,
		"P6M":   true,
		"P2W":   true,
		"P1Y6M": true,
		"1Y":    false,
		"P1H":   false,
		"P0D":   false,
		"P":     false,
	} {
		err := validFrequency(in)
		if ok {
			assert.NoError(t, err, in)
		} else {
			assert.Error(t, err, in)
		}
	}
}
