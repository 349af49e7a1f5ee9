package store

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a record does not exist in the
	// requested organization.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a uniqueness rule.
	ErrConflict = errors.New("already exists")

	// ErrInvalidReference is returned when a write references a record that
	// does not exist or belongs to another organization.
	ErrInvalidReference = errors.New("invalid reference")
)

// classify maps SQLite constraint failures onto the package sentinels.
func classify(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	code := se.Code()
	switch {
	case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE, code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return errors.Join(ErrConflict, err)
	case code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return errors.Join(ErrInvalidReference, err)
	case code&0xff == sqlite3.SQLITE_CONSTRAINT:
		// Extended result codes disabled; fall back to the message.
		msg := se.Error()
		switch {
		case strings.Contains(msg, "UNIQUE constraint failed"):
			return errors.Join(ErrConflict, err)
		case strings.Contains(msg, "FOREIGN KEY constraint failed"):
			return errors.Join(ErrInvalidReference, err)
		}
	}
	return err
}
