// Package db connects to PostgreSQL, MySQL, and SQLite databases and
// loads the schema metadata the window derivation consumes: tables and
// views with their columns, primary keys, foreign keys, and unique
// indexes, plus the database's own grouping of table names.
package db

import (
	"context"

	"github.com/skaldic/schemanav/schema"
)

// Loader is a connected database handle that can produce a full schema
// snapshot. Loaders are not safe for concurrent use; callers serialize
// access (the window cache does).
type Loader interface {
	// LoadTables returns every user table and view with full metadata.
	LoadTables(ctx context.Context) ([]schema.Table, error)

	// GroupedTableNames returns the database's grouping of table and view
	// names, one group per schema, tables listed before views.
	GroupedTableNames(ctx context.Context) ([]schema.TableGroup, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

var (
	_ Loader = (*PostgresLoader)(nil)
	_ Loader = (*MySQLLoader)(nil)
	_ Loader = (*SQLiteLoader)(nil)
)
