package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/orolab/orodb/config"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDefault(t *testing.T) {
	s := config.Default()

	want := &config.Settings{
		Driver:        "postgres",
		Host:          "localhost",
		Port:          5432,
		Name:          "postgres",
		User:          "postgres",
		Password:      "",
		PoolMin:       5,
		PoolMax:       20,
		LogLevel:      "INFO",
		MigrationsDir: "migrations",
	}

	if diff := cmp.Diff(want, s, cmpopts.IgnoreUnexported(config.Settings{})); diff != "" {
		t.Errorf("default settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orodb.toml")

	content := `
host = 'db.internal'
port = 5433
name = 'mydb'
user = 'myuser'
pool_min = 2
pool_max = 10
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	s, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if got, want := s.Host, "db.internal"; got != want {
		t.Errorf("host: got %q, want %q", got, want)
	}

	if got, want := s.Port, 5433; got != want {
		t.Errorf("port: got %d, want %d", got, want)
	}

	if got, want := s.PoolMax, 10; got != want {
		t.Errorf("pool_max: got %d, want %d", got, want)
	}

	if got, want := s.Path(), path; got != want {
		t.Errorf("path: got %q, want %q", got, want)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orodb.toml")

	if err := os.WriteFile(path, []byte("host = 'from-file'\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("ORO_DB_HOST", "from-env")
	t.Setenv("ORO_DB_PORT", "5433")
	t.Setenv("ORO_DB_PASSWORD", "secret")

	s, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if got, want := s.Host, "from-env"; got != want {
		t.Errorf("host: got %q, want %q", got, want)
	}

	if got, want := s.Port, 5433; got != want {
		t.Errorf("port: got %d, want %d", got, want)
	}

	if got, want := s.Password, "secret"; got != want {
		t.Errorf("password: got %q, want %q", got, want)
	}
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nonexistent.toml")); err == nil {
		t.Fatal("expected error for missing explicit config file, got nil")
	}
}

func TestLoad_InvalidDriverFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orodb.toml")

	if err := os.WriteFile(path, []byte("driver = 'oracle'\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	if _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unsupported driver, got nil")
	}
}

func TestDatabaseURL(t *testing.T) {
	s := config.Default()

	if got, want := s.DatabaseURL(), "postgresql://postgres:@localhost:5432/postgres"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDatabaseURL_SQLite(t *testing.T) {
	s := config.Default()
	s.Driver = config.DriverSQLite
	s.Name = "/tmp/orodb.db"

	if got, want := s.DatabaseURL(), "/tmp/orodb.db"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
