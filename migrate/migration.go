package migrate

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Func performs one directional schema change inside the given transaction.
type Func func(ctx context.Context, tx *sql.Tx) error

// Migration is an immutable descriptor of a single versioned,
// reversible schema change. Instances are constructed once per discovery
// pass and replaced wholesale when the discovery cache is invalidated.
type Migration struct {
	// Version identifies the migration. Versions are compared lexically,
	// so numeric versions must be zero-padded (e.g. "001").
	Version string

	// Description is a human-readable summary, never empty.
	Description string

	// Checksum is a 16 hex character digest of the source artifact,
	// used to detect drift between the recorded and current content.
	Checksum string

	// Up performs the forward schema change.
	Up Func

	// Down reverses it.
	Down Func
}

func (m *Migration) String() string {
	return fmt.Sprintf("%s %s", m.Version, m.Description)
}

// checksum digests raw into the fixed 16 hex character form used
// throughout the ledger. Identical content yields identical checksums.
func checksum(raw []byte) string {
	sum := blake2b.Sum256(raw)

	return hex.EncodeToString(sum[:8])
}

func errf(format string, a ...any) error {
	return fmt.Errorf(format, a...)
}
