package migrate

import (
	"context"
	"errors"
	"time"

	"github.com/orolab/orodb/dberrors"
)

// Runner orchestrates migration operations against a single database.
//
// A Runner performs one operation at a time; migrations always run
// sequentially in version order, each inside its own transaction.
// Runners do not coordinate with each other: concurrent runners against
// the same database require external mutual exclusion, e.g. an advisory
// lock.
type Runner struct {
	db      DBTX
	dialect Dialect
	source  Source

	// cached holds the last discovery result. nil means not yet
	// discovered or invalidated.
	cached []*Migration
}

// NewRunner returns a Runner reading migrations from source and applying
// them through db.
func NewRunner(db DBTX, dialect Dialect, source Source) *Runner {
	return &Runner{
		db:      db,
		dialect: dialect,
		source:  source,
	}
}

// Discover loads and validates the migration units from the source.
// The result is cached: repeated calls return the identical slice until
// [Runner.InvalidateCache] clears it. Discovery has no side effects
// beyond the cache.
func (r *Runner) Discover() ([]*Migration, error) {
	if r.cached != nil {
		return r.cached, nil
	}

	migrations, err := r.source.Load()
	if err != nil {
		return nil, err
	}

	if migrations == nil {
		migrations = []*Migration{}
	}

	r.cached = migrations

	return r.cached, nil
}

// InvalidateCache drops the cached discovery result; the next call to
// [Runner.Discover] re-reads the source.
func (r *Runner) InvalidateCache() {
	r.cached = nil
}

// Status describes one discovered migration cross-referenced against the
// ledger.
type Status struct {
	Version     string
	Description string
	Checksum    string
	Applied     bool
	AppliedAt   time.Time // zero when pending
}

// Status reports, per discovered migration, whether it has been applied.
// It is read-only apart from lazily ensuring the ledger table exists.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	migrations, err := r.Discover()
	if err != nil {
		return nil, err
	}

	if err := ensureLedger(ctx, r.db, r.dialect); err != nil {
		return nil, err
	}

	entries, err := ledgerEntries(ctx, r.db, r.dialect)
	if err != nil {
		return nil, err
	}

	applied := make(map[string]Entry, len(entries))
	for _, e := range entries {
		applied[e.Version] = e
	}

	statuses := make([]Status, 0, len(migrations))

	for _, m := range migrations {
		s := Status{
			Version:     m.Version,
			Description: m.Description,
			Checksum:    m.Checksum,
		}

		if e, ok := applied[m.Version]; ok {
			s.Applied = true
			s.AppliedAt = e.AppliedAt
		}

		statuses = append(statuses, s)
	}

	return statuses, nil
}

// Up applies all pending migrations in ascending version order and
// returns the versions processed. With dryRun set, it returns the
// versions that would be applied without running their actions or
// touching the ledger.
//
// Each migration runs in its own transaction together with its ledger
// insert. A failure aborts the run and is returned alongside the versions
// already applied; there is no batch-level rollback.
func (r *Runner) Up(ctx context.Context, dryRun bool) ([]string, error) {
	migrations, err := r.Discover()
	if err != nil {
		return nil, err
	}

	if err := ensureLedger(ctx, r.db, r.dialect); err != nil {
		return nil, err
	}

	entries, err := ledgerEntries(ctx, r.db, r.dialect)
	if err != nil {
		return nil, err
	}

	applied := make(map[string]bool, len(entries))
	for _, e := range entries {
		applied[e.Version] = true
	}

	processed := []string{}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		if dryRun {
			processed = append(processed, m.Version)
			continue
		}

		if err := r.applyOne(ctx, m); err != nil {
			return processed, err
		}

		processed = append(processed, m.Version)
	}

	return processed, nil
}

func (r *Runner) applyOne(ctx context.Context, m *Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errf("begin transaction: %w", err)
	}

	e := Entry{
		Version:     m.Version,
		Description: m.Description,
		Checksum:    m.Checksum,
		AppliedAt:   time.Now().UTC(),
	}

	err = m.Up(ctx, tx)
	if err == nil {
		err = insertEntry(ctx, tx, r.dialect, e)
	}

	if err != nil {
		if err2 := tx.Rollback(); err2 != nil {
			err = errors.Join(err, err2)
		}

		return errf("apply migration %q: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return errf("apply migration %q: commit: %w", m.Version, err)
	}

	return nil
}

// Down rolls back the most recently applied migrations, newest first, and
// returns the versions rolled back in the order processed. steps bounds
// how many are reverted. An empty ledger yields an empty result.
//
// A ledger entry whose source artifact can no longer be discovered is a
// fatal [dberrors.MigrationNotFoundError]: what cannot be loaded cannot
// be rolled back.
func (r *Runner) Down(ctx context.Context, steps int) ([]string, error) {
	if steps < 1 {
		return nil, errf("down: steps must be positive, got %d", steps)
	}

	migrations, err := r.Discover()
	if err != nil {
		return nil, err
	}

	if err := ensureLedger(ctx, r.db, r.dialect); err != nil {
		return nil, err
	}

	recent, err := recentVersions(ctx, r.db, r.dialect, steps)
	if err != nil {
		return nil, err
	}

	byVersion := make(map[string]*Migration, len(migrations))
	for _, m := range migrations {
		byVersion[m.Version] = m
	}

	processed := []string{}

	for _, version := range recent {
		m, ok := byVersion[version]
		if !ok {
			return processed, &dberrors.MigrationNotFoundError{Version: version}
		}

		if err := r.revertOne(ctx, m); err != nil {
			return processed, err
		}

		processed = append(processed, version)
	}

	return processed, nil
}

func (r *Runner) revertOne(ctx context.Context, m *Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errf("begin transaction: %w", err)
	}

	err = m.Down(ctx, tx)
	if err == nil {
		err = deleteEntry(ctx, tx, r.dialect, m.Version)
	}

	if err != nil {
		if err2 := tx.Rollback(); err2 != nil {
			err = errors.Join(err, err2)
		}

		return errf("roll back migration %q: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return errf("roll back migration %q: commit: %w", m.Version, err)
	}

	return nil
}

// Bootstrap initializes the ledger for a database whose baseline schema
// was created outside the tool. It records the earliest discovered
// migration as applied without running it and returns its version.
//
// Bootstrap is only valid on a pristine ledger; any recorded migration
// makes it fail with [dberrors.ErrBootstrapLedger].
func (r *Runner) Bootstrap(ctx context.Context) (string, error) {
	migrations, err := r.Discover()
	if err != nil {
		return "", err
	}

	if err := ensureLedger(ctx, r.db, r.dialect); err != nil {
		return "", err
	}

	entries, err := ledgerEntries(ctx, r.db, r.dialect)
	if err != nil {
		return "", err
	}

	if len(entries) > 0 {
		return "", errf("%w: %d migration(s) recorded", dberrors.ErrBootstrapLedger, len(entries))
	}

	if len(migrations) == 0 {
		return "", errf("bootstrap: %w", dberrors.ErrNoMigrations)
	}

	first := migrations[0]

	e := Entry{
		Version:     first.Version,
		Description: first.Description,
		Checksum:    first.Checksum,
		AppliedAt:   time.Now().UTC(),
	}

	if err := insertEntry(ctx, r.db, r.dialect, e); err != nil {
		return "", err
	}

	return first.Version, nil
}
