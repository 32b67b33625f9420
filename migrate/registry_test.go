package migrate_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/orolab/orodb/dberrors"
	"github.com/orolab/orodb/migrate"

	"github.com/google/go-cmp/cmp"
)

// codeMigration is a minimal Revertible for tests.
type codeMigration struct {
	version     string
	description string
	up          string
	down        string
}

func (m codeMigration) Version() string     { return m.version }
func (m codeMigration) Description() string { return m.description }

func (m codeMigration) Apply(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, m.up)
	return err
}

func (m codeMigration) Revert(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, m.down)
	return err
}

func TestRegistry_SortsByVersion(t *testing.T) {
	var reg migrate.Registry

	reg.Register(codeMigration{version: "002", description: "second"})
	reg.Register(codeMigration{version: "001", description: "first"})

	migrations, err := reg.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	versions := make([]string, 0, len(migrations))
	for _, m := range migrations {
		versions = append(versions, m.Version)
	}

	if diff := cmp.Diff([]string{"001", "002"}, versions); diff != "" {
		t.Errorf("version order mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	var reg migrate.Registry

	reg.Register(codeMigration{version: "001", description: "first"})
	reg.Register(codeMigration{version: "001", description: "shadow"})

	_, err := reg.Load()

	var dupErr *dberrors.DuplicateVersionError
	if !errors.As(err, &dupErr) {
		t.Fatalf("got err %v, want *dberrors.DuplicateVersionError", err)
	}
}

func TestRegistry_RejectsMissingAttributes(t *testing.T) {
	tests := []struct {
		name      string
		migration codeMigration
		wantAttr  string
	}{
		{"missing version", codeMigration{description: "no version"}, "version"},
		{"missing description", codeMigration{version: "001"}, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reg migrate.Registry

			reg.Register(tt.migration)

			_, err := reg.Load()

			var vErr *dberrors.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("got err %v, want *dberrors.ValidationError", err)
			}

			if vErr.Attribute != tt.wantAttr {
				t.Errorf("attribute: got %q, want %q", vErr.Attribute, tt.wantAttr)
			}
		})
	}
}

func TestRegistry_RunnerRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	var reg migrate.Registry

	reg.Register(codeMigration{
		version:     "001",
		description: "create settings",
		up:          "CREATE TABLE settings (k TEXT PRIMARY KEY, v TEXT);",
		down:        "DROP TABLE settings;",
	})

	r := migrate.NewRunner(db, migrate.SQLiteDialect{}, &reg)

	applied, err := r.Up(ctx, false)
	if err != nil {
		t.Fatalf("up: %v", err)
	}

	if diff := cmp.Diff([]string{"001"}, applied); diff != "" {
		t.Fatalf("applied versions mismatch (-want +got):\n%s", diff)
	}

	if _, err := db.ExecContext(ctx, "INSERT INTO settings (k, v) VALUES ('a', 'b')"); err != nil {
		t.Fatalf("settings table not usable after up: %v", err)
	}

	rolledBack, err := r.Down(ctx, 1)
	if err != nil {
		t.Fatalf("down: %v", err)
	}

	if diff := cmp.Diff([]string{"001"}, rolledBack); diff != "" {
		t.Errorf("rolled back versions mismatch (-want +got):\n%s", diff)
	}
}
