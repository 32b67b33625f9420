package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const artifactTemplate = `-- version: %s
-- description: %s

-- +up


-- +down

`

// Create scaffolds the next migration artifact in dir, creating the
// directory if absent. The new version is the highest discovered version
// incremented by one, zero-padded to three digits; versioning is local to
// the directory's contents at call time. It returns the path of the
// created file.
func Create(dir, description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", errf("create migration: description must not be empty")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", errf("create migrations dir: %w", err)
	}

	migrations, err := Dir(dir).Load()
	if err != nil {
		return "", err
	}

	next := 1

	for _, m := range migrations {
		if n, err := strconv.Atoi(m.Version); err == nil && n >= next {
			next = n + 1
		}
	}

	version := fmt.Sprintf("%03d", next)
	name := version + "_" + slugify(description) + ".sql"
	path := filepath.Join(dir, name)

	content := fmt.Sprintf(artifactTemplate, version, description)

	f, err := os.OpenFile(filepath.Clean(path), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", errf("create migration artifact: %w", err)
	}

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()

		return "", errf("write migration artifact: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", errf("close migration artifact: %w", err)
	}

	return path, nil
}

// slugify lowercases description and collapses every non-alphanumeric run
// into a single underscore.
func slugify(description string) string {
	var b strings.Builder

	lastUnderscore := true // trim leading separators

	for _, r := range strings.ToLower(description) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')

		switch {
		case isAlnum:
			b.WriteRune(r)

			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')

			lastUnderscore = true
		}
	}

	return strings.TrimSuffix(b.String(), "_")
}
