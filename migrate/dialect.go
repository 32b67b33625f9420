package migrate

// Dialect supplies the ledger SQL for a specific database engine.
// The ledger table is always named schema_migrations; values are passed
// exclusively through positional parameters.
type Dialect interface {
	// EnsureLedgerQuery returns an idempotent CREATE TABLE statement for
	// the ledger. Columns: version (text, primary key), description
	// (text, not null), checksum (text, not null), applied_at
	// (timestamp, not null, defaulting to the current time).
	EnsureLedgerQuery() string

	// SelectLedgerQuery returns all ledger entries ordered ascending by
	// version, columns in the order version, description, checksum,
	// applied_at.
	SelectLedgerQuery() string

	// SelectRecentQuery returns the versions of the most recently applied
	// entries, ordered applied_at descending then version descending,
	// limited by the single positional parameter.
	SelectRecentQuery() string

	// InsertLedgerQuery inserts one entry with positional parameters
	// (version, description, checksum, applied_at).
	InsertLedgerQuery() string

	// DeleteLedgerQuery deletes one entry by version.
	DeleteLedgerQuery() string
}

type SQLiteDialect struct{}

var _ Dialect = SQLiteDialect{}

func (SQLiteDialect) EnsureLedgerQuery() string {
	return `
		CREATE TABLE
			IF NOT EXISTS schema_migrations (
				version TEXT PRIMARY KEY,
				description TEXT NOT NULL,
				checksum TEXT NOT NULL,
				applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
	`
}

func (SQLiteDialect) SelectLedgerQuery() string {
	return `
		SELECT
			version, description, checksum, applied_at
		FROM
			schema_migrations
		ORDER BY
			version;
	`
}

func (SQLiteDialect) SelectRecentQuery() string {
	return `
		SELECT
			version
		FROM
			schema_migrations
		ORDER BY
			applied_at DESC, version DESC
		LIMIT $1;
	`
}

func (SQLiteDialect) InsertLedgerQuery() string {
	return `
		INSERT INTO
			schema_migrations (version, description, checksum, applied_at)
		VALUES
			($1, $2, $3, $4);
	`
}

func (SQLiteDialect) DeleteLedgerQuery() string {
	return `DELETE FROM schema_migrations WHERE version = $1;`
}

type PostgreSQLDialect struct{}

var _ Dialect = PostgreSQLDialect{}

func (PostgreSQLDialect) EnsureLedgerQuery() string {
	return `
		CREATE TABLE
			IF NOT EXISTS schema_migrations (
				version TEXT PRIMARY KEY,
				description TEXT NOT NULL,
				checksum TEXT NOT NULL,
				applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
			);
	`
}

func (PostgreSQLDialect) SelectLedgerQuery() string {
	return `
		SELECT
			version, description, checksum, applied_at
		FROM
			schema_migrations
		ORDER BY
			version;
	`
}

func (PostgreSQLDialect) SelectRecentQuery() string {
	return `
		SELECT
			version
		FROM
			schema_migrations
		ORDER BY
			applied_at DESC, version DESC
		LIMIT $1;
	`
}

func (PostgreSQLDialect) InsertLedgerQuery() string {
	return `
		INSERT INTO
			schema_migrations (version, description, checksum, applied_at)
		VALUES
			($1, $2, $3, $4);
	`
}

func (PostgreSQLDialect) DeleteLedgerQuery() string {
	return `DELETE FROM schema_migrations WHERE version = $1;`
}
