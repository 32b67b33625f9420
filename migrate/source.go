package migrate

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/orolab/orodb/dberrors"
)

// Source loads migration units. Implementations must return units sorted
// ascending by version with no duplicates; [Runner] relies on both.
type Source interface {
	Load() ([]*Migration, error)
}

// Artifact markers recognized inside .sql migration files.
const (
	markerVersion     = "-- version:"
	markerDescription = "-- description:"
	markerUp          = "-- +up"
	markerDown        = "-- +down"
)

// reservedPrefix marks artifacts excluded from discovery.
const reservedPrefix = "__"

// DirSource discovers migration artifacts in a single directory.
// A missing directory yields an empty result, not an error.
type DirSource struct {
	path string
}

// Dir returns a [Source] scanning the direct children of path.
func Dir(path string) DirSource {
	return DirSource{path: path}
}

func (s DirSource) Load() ([]*Migration, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, errf("stat migrations dir: %w", err)
	}

	return loadFS(os.DirFS(s.path), ".")
}

// FSSource discovers migration artifacts under dir inside an [fs.FS],
// typically a go:embed filesystem.
type FSSource struct {
	fsys fs.FS
	dir  string
}

// FS returns a [Source] over the given filesystem directory.
func FS(fsys fs.FS, dir string) FSSource {
	return FSSource{fsys: fsys, dir: dir}
}

func (s FSSource) Load() ([]*Migration, error) {
	return loadFS(s.fsys, s.dir)
}

func loadFS(fsys fs.FS, dir string) ([]*Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, errf("read migrations dir: %w", err)
	}

	var migrations []*Migration

	seen := make(map[string]string, len(entries)) // version -> artifact

	for _, entry := range entries {
		name := entry.Name()

		if entry.IsDir() || strings.HasPrefix(name, reservedPrefix) {
			continue
		}

		if path.Ext(name) != ".sql" {
			continue
		}

		raw, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, errf("read migration artifact %q: %w", name, err)
		}

		m, ok, err := parseArtifact(name, raw)
		if err != nil {
			// a malformed migration aborts the whole scan
			return nil, err
		}

		if !ok {
			continue // not a migration at all
		}

		if _, dup := seen[m.Version]; dup {
			return nil, &dberrors.DuplicateVersionError{Version: m.Version, Artifact: name}
		}

		seen[m.Version] = name

		migrations = append(migrations, m)
	}

	slices.SortFunc(migrations, func(a, b *Migration) int {
		return strings.Compare(a.Version, b.Version)
	})

	return migrations, nil
}

// parseArtifact parses a single .sql artifact.
//
// A file exposing none of the migration markers is not a migration and is
// reported with ok=false. A file exposing at least one marker must expose
// all four required attributes; otherwise a
// [dberrors.ValidationError] naming the missing attribute is returned.
func parseArtifact(name string, raw []byte) (m *Migration, ok bool, err error) {
	var (
		version     string
		description string
		hasUp       bool
		hasDown     bool
		upBody      strings.Builder
		downBody    strings.Builder
	)

	section := ""

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, markerVersion):
			version = strings.TrimSpace(strings.TrimPrefix(trimmed, markerVersion))
		case strings.HasPrefix(trimmed, markerDescription):
			description = strings.TrimSpace(strings.TrimPrefix(trimmed, markerDescription))
		case trimmed == markerUp:
			hasUp, section = true, "up"
		case trimmed == markerDown:
			hasDown, section = true, "down"
		default:
			switch section {
			case "up":
				upBody.WriteString(line)
				upBody.WriteByte('\n')
			case "down":
				downBody.WriteString(line)
				downBody.WriteByte('\n')
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, false, errf("scan migration artifact %q: %w", name, err)
	}

	recognizable := version != "" || description != "" || hasUp || hasDown
	if !recognizable {
		return nil, false, nil
	}

	switch {
	case version == "":
		return nil, false, &dberrors.ValidationError{Artifact: name, Attribute: "version"}
	case description == "":
		return nil, false, &dberrors.ValidationError{Artifact: name, Attribute: "description"}
	case !hasUp:
		return nil, false, &dberrors.ValidationError{Artifact: name, Attribute: "up"}
	case !hasDown:
		return nil, false, &dberrors.ValidationError{Artifact: name, Attribute: "down"}
	}

	m = &Migration{
		Version:     version,
		Description: description,
		Checksum:    checksum(raw),
		Up:          execFunc(upBody.String()),
		Down:        execFunc(downBody.String()),
	}

	return m, true, nil
}

// execFunc wraps a SQL script into a [Func]. Blank scripts become no-ops.
func execFunc(script string) Func {
	script = strings.TrimSpace(script)

	return func(ctx context.Context, tx *sql.Tx) error {
		if script == "" {
			return nil
		}

		if _, err := tx.ExecContext(ctx, script); err != nil {
			return errf("exec: %w", err)
		}

		return nil
	}
}
