// Package pool provides thin connection-pool plumbing over database/sql,
// configured from [config.Settings], plus a few schema and introspection
// helpers.
//
// database/sql already is a connection pool; this package only selects the
// driver, applies the configured bounds, and keeps table names out of
// unchecked string interpolation.
package pool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/orolab/orodb/config"
	"github.com/orolab/orodb/dberrors"

	"github.com/google/uuid"

	// Database drivers matching the supported config.Driver* values.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

func errf(format string, a ...any) error {
	return fmt.Errorf(format, a...)
}

// driverNames maps config driver values to registered sql driver names.
var driverNames = map[string]string{
	config.DriverPostgres: "pgx",
	config.DriverSQLite:   "sqlite",
}

// Pool owns a *sql.DB configured per settings.
type Pool struct {
	db     *sql.DB
	driver string
}

// Open opens a pool for the configured driver and applies the pool bounds.
// No connection is established until first use; use [Pool.Ping] to verify
// connectivity.
func Open(settings *config.Settings) (*Pool, error) {
	name, ok := driverNames[settings.Driver]
	if !ok {
		return nil, errf("pool: unsupported driver %q", settings.Driver)
	}

	db, err := sql.Open(name, settings.DatabaseURL())
	if err != nil {
		return nil, &dberrors.DatabaseError{Op: "open", Err: err}
	}

	db.SetMaxOpenConns(settings.PoolMax)
	db.SetMaxIdleConns(settings.PoolMin)

	return &Pool{db: db, driver: settings.Driver}, nil
}

// DB exposes the underlying *sql.DB, e.g. for constructing a
// migrate.Runner.
func (p *Pool) DB() *sql.DB { return p.db }

// Driver returns the configured driver name.
func (p *Pool) Driver() string { return p.driver }

func (p *Pool) Close() error {
	if err := p.db.Close(); err != nil {
		return &dberrors.DatabaseError{Op: "close", Err: err}
	}

	return nil
}

func (p *Pool) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return &dberrors.DatabaseError{Op: "ping", Err: err}
	}

	return nil
}

// CheckConnection reports whether the database is reachable.
func (p *Pool) CheckConnection(ctx context.Context) bool {
	return p.Ping(ctx) == nil
}

// Acquire checks out a dedicated connection; the caller returns it to the
// pool by closing it. When every connection is in use, Acquire blocks
// until one frees up or ctx expires, the latter reported as
// [dberrors.ErrPoolExhausted].
func (p *Pool) Acquire(ctx context.Context) (*sql.Conn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errf("acquire connection: %w", dberrors.ErrPoolExhausted)
		}

		return nil, &dberrors.DatabaseError{Op: "acquire connection", Err: err}
	}

	return conn, nil
}

// Stats returns the live pool statistics.
func (p *Pool) Stats() sql.DBStats { return p.db.Stats() }

// GenerateID returns a random UUID string for use as a row id.
func GenerateID() string {
	return uuid.NewString()
}

// identifierRe constrains table names used by the introspection helpers.
var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const (
	tableExistsSQLite = `SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = $1;`

	tableExistsPostgres = `
		SELECT
			1
		FROM
			information_schema.tables
		WHERE
			table_schema = 'public' AND table_name = $1;
	`
)

// TableExists reports whether the named table exists.
func (p *Pool) TableExists(ctx context.Context, table string) (bool, error) {
	query := tableExistsPostgres
	if p.driver == config.DriverSQLite {
		query = tableExistsSQLite
	}

	var one int

	err := p.db.QueryRowContext(ctx, query, table).Scan(&one)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, &dberrors.DatabaseError{Op: "table exists", Err: err}
	}

	return true, nil
}

// CountRows counts the rows of the named table. When an allow-list is
// given, table must be a member; the name is additionally constrained to a
// plain SQL identifier before it is interpolated.
func (p *Pool) CountRows(ctx context.Context, table string, allowed ...string) (int64, error) {
	if len(allowed) > 0 && !slices.Contains(allowed, table) {
		return 0, errf("count rows: table %q not in allowlist", table)
	}

	if !identifierRe.MatchString(table) {
		return 0, errf("count rows: invalid table name %q", table)
	}

	exists, err := p.TableExists(ctx, table)
	if err != nil {
		return 0, err
	}

	if !exists {
		return 0, &dberrors.NotFoundError{Resource: "table", ID: table}
	}

	var n int64
	if err := p.db.QueryRowContext(ctx, `SELECT count(*) FROM "`+table+`";`).Scan(&n); err != nil {
		return 0, &dberrors.DatabaseError{Op: "count rows", Err: err}
	}

	return n, nil
}

// InitSchema executes the given .sql files from dir in order. With no
// explicit files, every direct-child .sql file is executed in name order.
// Named files that do not exist are skipped.
func (p *Pool) InitSchema(ctx context.Context, dir string, files ...string) error {
	if len(files) == 0 {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}

			return errf("init schema: read dir: %w", err)
		}

		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
				files = append(files, entry.Name())
			}
		}

		slices.Sort(files)
	}

	for _, name := range files {
		raw, err := os.ReadFile(filepath.Clean(filepath.Join(dir, name)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return errf("init schema: read %q: %w", name, err)
		}

		script := strings.TrimSpace(string(raw))
		if script == "" {
			continue
		}

		if _, err := p.db.ExecContext(ctx, script); err != nil {
			return &dberrors.DatabaseError{Op: "init schema: " + name, Err: err}
		}
	}

	return nil
}
