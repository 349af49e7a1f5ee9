package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// sqlb builds SQLite-flavoured statements.
var sqlb = entsql.Dialect(dialect.SQLite)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures Open.
type Option func(*options)

type options struct {
	skipMigrate bool
	now         func() time.Time
}

// WithoutMigrate opens the store without applying pending migrations.
func WithoutMigrate() Option {
	return func(o *options) { o.skipMigrate = true }
}

// WithClock overrides the clock used for created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and migrates the schema to the latest
// version.
func Open(dsn string, opts ...Option) (*Store, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps per-connection pragmas in effect and
	// serializes writers.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &Store{db: db, now: o.now}
	if !o.skipMigrate {
		if err := s.MigrateUp(); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Organizations returns an OrganizationRepo backed by this store.
func (s *Store) Organizations() OrganizationRepo {
	return &organizationRepo{s}
}

// Teams returns a TeamRepo backed by this store.
func (s *Store) Teams() TeamRepo {
	return &teamRepo{s}
}

// People returns a PersonRepo backed by this store.
func (s *Store) People() PersonRepo {
	return &personRepo{s}
}

// Catalogue returns a CatalogueRepo backed by this store.
func (s *Store) Catalogue() CatalogueRepo {
	return &catalogueRepo{s: s}
}

// Assessments returns an AssessmentRepo backed by this store.
func (s *Store) Assessments() AssessmentRepo {
	return &assessmentRepo{s}
}

// PersonnelImport returns a PersonnelImportStore backed by this store.
func (s *Store) PersonnelImport() PersonnelImportStore {
	return &personRepo{s}
}

// applyPragmas configures SQLite for a single-writer web workload.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// withTx runs fn inside a transaction, rolling back when fn fails.
func (s *Store) withTx(ctx context.Context, fn func(q queryer) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) stamp() string {
	return formatTime(s.now())
}
