// Package personnel imports people into an organization from CSV or JSON.
package personnel

import (
	"fmt"

	"github.com/rtplus/rtplus/internal/store"
)

// Row is one person parsed from an import file. Line is the 1-based source
// line (CSV) or array index + 1 (JSON).
type Row struct {
	Line   int    `json:"line"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status,omitempty"`
}

// RowIssue explains why a row was not imported.
type RowIssue struct {
	Row
	Reason string `json:"reason"`
}

// Options controls an import run.
type Options struct {
	// Sandbox fills in generated addresses for rows without an email.
	Sandbox bool

	// SandboxDomain overrides the generated address domain.
	SandboxDomain string

	// DryRun validates and reports without writing.
	DryRun bool
}

// Result summarizes an import run.
type Result struct {
	Created []store.Person `json:"created"`
	Skipped []RowIssue     `json:"skipped"`
	Invalid []RowIssue     `json:"invalid"`

	// Planned holds the rows that would be created on a dry run.
	Planned []Row `json:"planned,omitempty"`
}

// ParseError reports a malformed import file.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }
