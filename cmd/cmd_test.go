package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtplus/rtplus/internal/monitoring"
	"github.com/rtplus/rtplus/internal/store"
)

// resetFlags restores every flag to its default; cobra keeps flag values
// between executions in one process.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func testDB(t *testing.T) string {
	t.Helper()
	monitoring.SetLogger(nil)
	t.Setenv("RTPLUS_DB", "")
	t.Setenv("RTPLUS_SANDBOX_DOMAIN", "")
	return filepath.Join(t.TempDir(), "cli.db")
}

func noEnv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rtplus (devel)\n", out)

	out, err = run(t, "version", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "go: go1.")
}

func TestSandboxEmail(t *testing.T) {
	testDB(t)
	out, err := run(t, "sandbox-email", "--env-file", noEnv(t), "Jane", "Q", "Doe")
	require.NoError(t, err)
	assert.Equal(t, "jane.q.doe@example.com\n", out)
}

func TestMigrate(t *testing.T) {
	db := testDB(t)
	env := noEnv(t)

	out, err := run(t, "migrate", "version", "--db", db, "--env-file", env)
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 0")

	out, err = run(t, "migrate", "up", "--db", db, "--env-file", env)
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 1")

	out, err = run(t, "migrate", "down", "--db", db, "--env-file", env)
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 0")
}

func TestOrgCreateAndList(t *testing.T) {
	db := testDB(t)
	env := noEnv(t)

	out, err := run(t, "org", "create", "Alpha", "Rescue", "--db", db, "--env-file", env,
		"--owner-email", "jane@example.com", "--owner-name", "Jane Doe")
	require.NoError(t, err)
	assert.Contains(t, out, "Alpha Rescue (alpha-rescue)")
	assert.Contains(t, out, "Jane Doe <jane@example.com>")

	_, err = run(t, "org", "create", "Sandbox", "--db", db, "--env-file", env, "--sandbox", "--slug", "play")
	require.NoError(t, err)

	_, err = run(t, "org", "create", "Alpha Rescue", "--db", db, "--env-file", env)
	assert.ErrorIs(t, err, store.ErrConflict)

	out, err = run(t, "org", "list", "--db", db, "--env-file", env)
	require.NoError(t, err)
	assert.Contains(t, out, "alpha-rescue")
	assert.Contains(t, out, "sandbox")
	assert.Contains(t, out, "play")
}

func TestImportPersonnel(t *testing.T) {
	db := testDB(t)
	env := noEnv(t)
	_, err := run(t, "org", "create", "Alpha", "--db", db, "--env-file", env)
	require.NoError(t, err)

	csvFile := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(csvFile, []byte(
		"name,email\nAnn One,ann@example.com\nBob Two,\nAnn Again,ANN@example.com\n"), 0o644))

	out, err := run(t, "import", "personnel", csvFile, "--org", "alpha", "--db", db, "--env-file", env, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run")
	assert.Contains(t, out, "would create")

	out, err = run(t, "import", "personnel", csvFile, "--org", "alpha", "--db", db, "--env-file", env, "--sandbox")
	require.NoError(t, err)
	assert.Contains(t, out, "duplicate of line 2")

	s, err := store.Open(db)
	require.NoError(t, err)
	defer s.Close()
	org, err := s.Organizations().GetBySlug(context.Background(), "alpha")
	require.NoError(t, err)
	people, err := s.People().List(context.Background(), org.ID)
	require.NoError(t, err)
	emails := make([]string, 0, len(people))
	for _, p := range people {
		emails = append(emails, p.Email)
	}
	assert.ElementsMatch(t, []string{"ann@example.com", "bob.two@example.com"}, emails)
}

func TestImportPersonnel_Errors(t *testing.T) {
	db := testDB(t)
	env := noEnv(t)

	txt := filepath.Join(t.TempDir(), "people.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	_, err := run(t, "import", "personnel", txt, "--org", "alpha", "--db", db, "--env-file", env)
	assert.ErrorContains(t, err, "unsupported file type")

	js := filepath.Join(t.TempDir(), "people.json")
	require.NoError(t, os.WriteFile(js, []byte(`{"people":[]}`), 0o644))
	_, err = run(t, "import", "personnel", js, "--org", "nowhere", "--db", db, "--env-file", env)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCatalogueInstallAndSkillList(t *testing.T) {
	db := testDB(t)
	env := noEnv(t)
	_, err := run(t, "org", "create", "Alpha", "--db", db, "--env-file", env)
	require.NoError(t, err)

	pkg := filepath.Join(t.TempDir(), "rope.yaml")
	require.NoError(t, os.WriteFile(pkg, []byte(`
capability:
  name: Rope Rescue
groups:
  - name: Knots
    skills:
      - name: Figure eight
      - name: Prusik
        optional: true
`), 0o644))

	out, err := run(t, "catalogue", "install", pkg, "--org", "alpha", "--db", db, "--env-file", env)
	require.NoError(t, err)
	assert.Contains(t, out, "Rope Rescue into alpha: 1 groups, 2 skills")

	out, err = run(t, "skill", "list", "--org", "alpha", "--db", db, "--env-file", env, "--capability", "Rope Rescue")
	require.NoError(t, err)
	assert.Contains(t, out, "Figure eight")
	assert.Contains(t, out, "Knots")
	assert.Contains(t, out, "2 skills")

	_, err = run(t, "skill", "list", "--org", "alpha", "--db", db, "--env-file", env, "--capability", "Diving")
	assert.ErrorContains(t, err, `no capability named "Diving"`)

	out, err = run(t, "stats", "--db", db, "--env-file", env)
	require.NoError(t, err)
	assert.Contains(t, out, "alpha")
}

func TestCurrency(t *testing.T) {
	db := testDB(t)
	env := noEnv(t)
	_, err := run(t, "org", "create", "Alpha", "--db", db, "--env-file", env,
		"--owner-email", "jane@example.com", "--owner-name", "Jane Doe")
	require.NoError(t, err)

	pkg := filepath.Join(t.TempDir(), "rope.yaml")
	require.NoError(t, os.WriteFile(pkg, []byte(`
capability:
  name: Rope Rescue
skills:
  - name: Figure eight
    frequency: P6M
`), 0o644))
	_, err = run(t, "catalogue", "install", pkg, "--org", "alpha", "--db", db, "--env-file", env)
	require.NoError(t, err)

	out, err := run(t, "currency", "Jane@Example.com", "--org", "alpha", "--at", "2026-03-14", "--db", db, "--env-file", env)
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Figure eight")
	assert.Contains(t, out, "never_checked")
	assert.Contains(t, out, "0 current, 0 expiring, 0 expired, 0 not yet competent, 1 never checked")

	_, err = run(t, "currency", "nobody@example.com", "--org", "alpha", "--db", db, "--env-file", env)
	assert.ErrorContains(t, err, "not found")

	_, err = run(t, "currency", "jane@example.com", "--org", "alpha", "--at", "14/03/2026", "--db", db, "--env-file", env)
	assert.ErrorContains(t, err, "--at")
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Alpha Rescue":       "alpha-rescue",
		"  St. John's  Team": "st-john-s-team",
		"!!!":                "",
		"Team 42":            "team-42",
	}
	for in, want := range tests {
		assert.Equal(t, want, slugify(in), in)
	}
}
