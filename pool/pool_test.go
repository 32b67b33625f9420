package pool_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/orolab/orodb/config"
	"github.com/orolab/orodb/dberrors"
	"github.com/orolab/orodb/pool"
)

func newTestPool(t *testing.T) *pool.Pool {
	t.Helper()

	s := config.Default()
	s.Driver = config.DriverSQLite
	s.Name = filepath.Join(t.TempDir(), "pool_test.db")
	s.PoolMin = 1
	s.PoolMax = 1

	p, err := pool.Open(s)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}

	t.Cleanup(func() {
		if err := p.Close(); err != nil {
			t.Errorf("close pool: %v", err)
		}
	})

	return p
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	s := config.Default()
	s.Driver = "oracle"

	if _, err := pool.Open(s); err == nil {
		t.Fatal("expected error for unsupported driver, got nil")
	}
}

func TestPool_PingAndCheckConnection(t *testing.T) {
	p := newTestPool(t)
	ctx := context.Background()

	if err := p.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	if !p.CheckConnection(ctx) {
		t.Error("CheckConnection() = false, want true")
	}
}

func TestPool_Acquire_ReturnsConnectionToPool(t *testing.T) {
	p := newTestPool(t)
	ctx := context.Background()

	conn, err := p.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		t.Errorf("ping acquired connection: %v", err)
	}

	if err := conn.Close(); err != nil {
		t.Errorf("return connection: %v", err)
	}
}

func TestPool_Acquire_Exhausted(t *testing.T) {
	p := newTestPool(t) // pool bounded to a single connection

	conn, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := p.Acquire(ctx); !errors.Is(err, dberrors.ErrPoolExhausted) {
		t.Fatalf("got err %v, want ErrPoolExhausted", err)
	}
}

func TestGenerateID_UUIDShape(t *testing.T) {
	seen := make(map[string]bool, 100)

	for i := 0; i < 100; i++ {
		id := pool.GenerateID()

		if got, want := len(id), 36; got != want {
			t.Fatalf("id length: got %d, want %d", got, want)
		}

		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}

		seen[id] = true
	}
}

func TestPool_TableExists(t *testing.T) {
	p := newTestPool(t)
	ctx := context.Background()

	if _, err := p.DB().ExecContext(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY)"); err != nil {
		t.Fatalf("create table: %v", err)
	}

	exists, err := p.TableExists(ctx, "users")
	if err != nil {
		t.Fatalf("table exists: %v", err)
	}

	if !exists {
		t.Error("TableExists(users) = false, want true")
	}

	exists, err = p.TableExists(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("table exists: %v", err)
	}

	if exists {
		t.Error("TableExists(nonexistent) = true, want false")
	}
}

func TestPool_CountRows(t *testing.T) {
	p := newTestPool(t)
	ctx := context.Background()

	if _, err := p.DB().ExecContext(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY)"); err != nil {
		t.Fatalf("create table: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := p.DB().ExecContext(ctx, "INSERT INTO users DEFAULT VALUES"); err != nil {
			t.Fatalf("insert row: %v", err)
		}
	}

	n, err := p.CountRows(ctx, "users", "users", "orders")
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}

	if got, want := n, int64(3); got != want {
		t.Errorf("got %d rows, want %d", got, want)
	}
}

func TestPool_CountRows_RejectsUnlistedTable(t *testing.T) {
	p := newTestPool(t)

	if _, err := p.CountRows(context.Background(), "secret_table", "users"); err == nil {
		t.Fatal("expected error for unlisted table, got nil")
	}
}

func TestPool_CountRows_RejectsInvalidIdentifier(t *testing.T) {
	p := newTestPool(t)

	if _, err := p.CountRows(context.Background(), `users"; DROP TABLE users; --`); err == nil {
		t.Fatal("expected error for invalid identifier, got nil")
	}
}

func TestPool_CountRows_MissingTable(t *testing.T) {
	p := newTestPool(t)

	_, err := p.CountRows(context.Background(), "nonexistent")

	var nfErr *dberrors.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("got err %v, want *dberrors.NotFoundError", err)
	}
}

func TestPool_InitSchema(t *testing.T) {
	p := newTestPool(t)
	ctx := context.Background()
	dir := t.TempDir()

	err := os.WriteFile(filepath.Join(dir, "schema.sql"), []byte("CREATE TABLE test_init (id INTEGER);"), 0o600)
	if err != nil {
		t.Fatalf("write schema file: %v", err)
	}

	if err := p.InitSchema(ctx, dir); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	exists, err := p.TableExists(ctx, "test_init")
	if err != nil {
		t.Fatalf("table exists: %v", err)
	}

	if !exists {
		t.Error("schema file was not executed")
	}
}

func TestPool_InitSchema_SkipsMissingFiles(t *testing.T) {
	p := newTestPool(t)

	if err := p.InitSchema(context.Background(), t.TempDir(), "missing.sql"); err != nil {
		t.Fatalf("init schema with missing file: %v", err)
	}
}
