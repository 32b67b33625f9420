// Package migrate implements a schema-migration runner for database/sql
// databases.
//
// Migrations are versioned, reversible units loaded from a [Source]: a
// directory of declarative .sql artifacts ([Dir]), an embedded filesystem
// ([FS]), or Go implementations registered at build time ([Registry]).
// A [Runner] diffs the discovered units against a persisted ledger table
// (schema_migrations) and applies or reverts them in strict version order,
// each unit inside its own transaction.
//
// Typical usage:
//
//	r := migrate.NewRunner(db, migrate.SQLiteDialect{}, migrate.Dir("migrations"))
//
//	applied, err := r.Up(ctx, false)
//	if err != nil {
//		// migrations applied before the failure remain applied
//	}
package migrate
