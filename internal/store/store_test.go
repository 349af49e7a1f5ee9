package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "rtplus.db"))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestOrg(t *testing.T, s *Store, slug string) *Organization {
	t.Helper()
	org, err := s.Organizations().Create(context.Background(), "Org "+slug, slug, false)
	require.NoError(t, err)
	return org
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	require.NotNil(t, s.DB())
	require.NoError(t, s.DB().Ping())
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		require.NoError(t, err, "PRAGMA %s", tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestMigrateVersionAndDown(t *testing.T) {
	s := openTestStore(t)

	v, dirty, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
	assert.False(t, dirty)

	require.NoError(t, s.MigrateDown())
	v, _, err = s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), v)

	var n int
	require.NoError(t, s.DB().QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='organizations'`).Scan(&n))
	assert.Zero(t, n)

	// Re-applying is idempotent.
	require.NoError(t, s.MigrateUp())
	require.NoError(t, s.MigrateUp())
}

func TestOpen_WithoutMigrate(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "raw.db"), WithoutMigrate())
	require.NoError(t, err)
	defer s.Close()

	v, _, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), v)
}

func TestWithClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	s, err := Open(filepath.Join(t.TempDir(), "clock.db"), WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	defer s.Close()

	org, err := s.Organizations().Create(context.Background(), "Clocked", "clocked", false)
	require.NoError(t, err)
	assert.True(t, org.CreatedAt.Equal(fixed))
}
