// Package dberrors defines the failure taxonomy shared by the orodb
// packages.
//
// Every error raised by the migration core and the pool plumbing is either
// one of the sentinel errors below or a typed error that unwraps to [Err].
// Callers are expected to match with [errors.Is] and [errors.As] rather
// than inspect messages.
package dberrors

import (
	"errors"
	"fmt"
)

// Err is the root of the taxonomy. All typed errors in this package
// unwrap to it.
var Err = errors.New("orodb")

var (
	// ErrBootstrapLedger indicates that bootstrap was attempted against a
	// ledger that already records applied migrations.
	ErrBootstrapLedger = errors.New("cannot bootstrap: ledger is not empty")

	// ErrNoMigrations indicates an operation that requires at least one
	// discoverable migration found none.
	ErrNoMigrations = errors.New("no migrations discovered")

	// ErrPoolExhausted indicates the connection pool handed back no
	// usable connection.
	ErrPoolExhausted = errors.New("connection pool exhausted")
)

// ValidationError reports a migration artifact that is recognizable as a
// migration but is missing a required attribute.
type ValidationError struct {
	Artifact  string // artifact file name
	Attribute string // the missing attribute: version, description, up or down
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("migration %q: missing required attribute %q", e.Artifact, e.Attribute)
}

func (e *ValidationError) Unwrap() error { return Err }

// DuplicateVersionError reports two migration artifacts declaring the same
// version.
type DuplicateVersionError struct {
	Version  string
	Artifact string // the second artifact carrying the duplicate
}

func (e *DuplicateVersionError) Error() string {
	return fmt.Sprintf("migration %q: duplicate version %q", e.Artifact, e.Version)
}

func (e *DuplicateVersionError) Unwrap() error { return Err }

// MigrationNotFoundError reports a ledger entry whose source artifact can
// no longer be resolved, typically during rollback.
type MigrationNotFoundError struct {
	Version string
}

func (e *MigrationNotFoundError) Error() string {
	return fmt.Sprintf("migration %q: recorded in ledger but no source artifact found", e.Version)
}

func (e *MigrationNotFoundError) Unwrap() error { return Err }

// NotFoundError reports a missing resource by type and id.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return Err }

// ConflictError reports an operation that clashes with existing state.
type ConflictError struct {
	Message    string
	ExistingID string
}

func (e *ConflictError) Error() string {
	if e.ExistingID == "" {
		return e.Message
	}

	return fmt.Sprintf("%s (existing id: %s)", e.Message, e.ExistingID)
}

func (e *ConflictError) Unwrap() error { return Err }

// DatabaseError wraps a driver or connectivity failure with the operation
// that triggered it. The underlying driver error remains reachable through
// [errors.Unwrap].
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database: %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }
