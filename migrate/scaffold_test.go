package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orolab/orodb/migrate"
)

func TestCreate_ScaffoldsArtifact(t *testing.T) {
	dir := t.TempDir()

	path, err := migrate.Create(dir, "add users table")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if got, want := filepath.Base(path), "001_add_users_table.sql"; got != want {
		t.Errorf("file name: got %q, want %q", got, want)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read scaffolded artifact: %v", err)
	}

	content := string(raw)

	for _, want := range []string{
		"-- version: 001",
		"-- description: add users table",
		"-- +up",
		"-- +down",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("scaffolded artifact missing %q:\n%s", want, content)
		}
	}

	// the scaffold must itself be discoverable
	migrations, err := migrate.Dir(dir).Load()
	if err != nil {
		t.Fatalf("load scaffolded dir: %v", err)
	}

	if len(migrations) != 1 {
		t.Fatalf("got %d migrations, want 1", len(migrations))
	}

	if got, want := migrations[0].Description, "add users table"; got != want {
		t.Errorf("description: got %q, want %q", got, want)
	}
}

func TestCreate_IncrementsVersion(t *testing.T) {
	dir := t.TempDir()

	if _, err := migrate.Create(dir, "first"); err != nil {
		t.Fatalf("create first: %v", err)
	}

	path, err := migrate.Create(dir, "second")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if got, want := filepath.Base(path), "002_second.sql"; got != want {
		t.Errorf("file name: got %q, want %q", got, want)
	}
}

func TestCreate_MakesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")

	path, err := migrate.Create(dir, "init")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Fatalf("migrations dir not created: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("scaffolded artifact not created: %v", err)
	}
}

func TestCreate_EmptyDescriptionFails(t *testing.T) {
	if _, err := migrate.Create(t.TempDir(), "  "); err == nil {
		t.Fatal("expected error for empty description, got nil")
	}
}

func TestCreate_SlugCollapsesSpecials(t *testing.T) {
	dir := t.TempDir()

	path, err := migrate.Create(dir, "Add  (users) & roles!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if got, want := filepath.Base(path), "001_add_users_roles.sql"; got != want {
		t.Errorf("file name: got %q, want %q", got, want)
	}
}
