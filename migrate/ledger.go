package migrate

import (
	"context"
	"database/sql"
	"time"
)

// CoreDB is the subset of database operations the ledger requires.
// Both *sql.DB and *sql.Tx satisfy it.
type CoreDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DBTX is the connection provider injected into a [Runner]: CoreDB plus
// the ability to open transactions. *sql.DB satisfies it.
type DBTX interface {
	CoreDB
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Entry is one row of the schema_migrations ledger: the record of a
// single applied migration.
type Entry struct {
	Version     string
	Description string
	Checksum    string
	AppliedAt   time.Time
}

func ensureLedger(ctx context.Context, db CoreDB, dialect Dialect) error {
	if _, err := db.ExecContext(ctx, dialect.EnsureLedgerQuery()); err != nil {
		return errf("ensure ledger table: %w", err)
	}

	return nil
}

func ledgerEntries(ctx context.Context, db CoreDB, dialect Dialect) (entries []Entry, retErr error) {
	rows, err := db.QueryContext(ctx, dialect.SelectLedgerQuery())
	if err != nil {
		return nil, errf("query ledger: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil && retErr == nil {
			retErr = errf("close ledger rows: %w", err)
		}
	}()

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Version, &e.Description, &e.Checksum, &e.AppliedAt); err != nil {
			return nil, errf("scan ledger entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, errf("iterate ledger: %w", err)
	}

	return entries, nil
}

// recentVersions returns up to n applied versions, most recent first.
func recentVersions(ctx context.Context, db CoreDB, dialect Dialect, n int) (versions []string, retErr error) {
	rows, err := db.QueryContext(ctx, dialect.SelectRecentQuery(), n)
	if err != nil {
		return nil, errf("query recent ledger entries: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil && retErr == nil {
			retErr = errf("close ledger rows: %w", err)
		}
	}()

	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errf("scan ledger version: %w", err)
		}

		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, errf("iterate ledger: %w", err)
	}

	return versions, nil
}

func insertEntry(ctx context.Context, db CoreDB, dialect Dialect, e Entry) error {
	if _, err := db.ExecContext(ctx, dialect.InsertLedgerQuery(), e.Version, e.Description, e.Checksum, e.AppliedAt); err != nil {
		return errf("insert ledger entry %q: %w", e.Version, err)
	}

	return nil
}

func deleteEntry(ctx context.Context, db CoreDB, dialect Dialect, version string) error {
	if _, err := db.ExecContext(ctx, dialect.DeleteLedgerQuery(), version); err != nil {
		return errf("delete ledger entry %q: %w", version, err)
	}

	return nil
}
