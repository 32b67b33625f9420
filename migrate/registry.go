package migrate

import (
	"context"
	"database/sql"
	"slices"
	"strings"

	"github.com/orolab/orodb/dberrors"
)

// Revertible is a compiled-in migration implementation. Registering
// Revertibles with a [Registry] is the code-first alternative to .sql
// artifacts: the schema change lives in Go instead of a script.
type Revertible interface {
	Version() string
	Description() string
	Apply(ctx context.Context, tx *sql.Tx) error
	Revert(ctx context.Context, tx *sql.Tx) error
}

// Registry is a [Source] over statically registered migrations.
// The zero value is ready to use.
type Registry struct {
	registered []Revertible
}

// Register adds m to the registry. Registration order does not matter;
// [Registry.Load] sorts by version.
func (r *Registry) Register(m Revertible) {
	r.registered = append(r.registered, m)
}

// Load validates the registered migrations and returns them as ordered
// units. Checksums of code migrations are derived from the version and
// description only; they identify the unit but cannot detect changes to
// its body.
func (r *Registry) Load() ([]*Migration, error) {
	migrations := make([]*Migration, 0, len(r.registered))
	seen := make(map[string]bool, len(r.registered))

	for _, reg := range r.registered {
		version, description := reg.Version(), reg.Description()

		if version == "" {
			return nil, &dberrors.ValidationError{Artifact: description, Attribute: "version"}
		}

		if description == "" {
			return nil, &dberrors.ValidationError{Artifact: version, Attribute: "description"}
		}

		if seen[version] {
			return nil, &dberrors.DuplicateVersionError{Version: version, Artifact: description}
		}

		seen[version] = true

		migrations = append(migrations, &Migration{
			Version:     version,
			Description: description,
			Checksum:    checksum([]byte(version + "\x00" + description)),
			Up:          reg.Apply,
			Down:        reg.Revert,
		})
	}

	slices.SortFunc(migrations, func(a, b *Migration) int {
		return strings.Compare(a.Version, b.Version)
	})

	return migrations, nil
}
