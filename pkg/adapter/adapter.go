// Package adapter provides the database adapter contract used to move date
// values through real drivers.
//
// Concrete adapters live in pkg/adapters/ subdirectories and register
// themselves in init(); import them with a blank identifier.
package adapter

import (
	"context"
	"database/sql"

	"github.com/leapstack-labs/datecol/pkg/dialect"
)

// Config holds the connection settings for one target.
type Config struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
}

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a statement that doesn't return rows.
	Exec(ctx context.Context, sql string, args ...any) error

	// Query executes a statement that returns rows. The caller closes them.
	Query(ctx context.Context, sql string, args ...any) (*sql.Rows, error)

	// Dialect returns the dialect whose mode and column types the adapter's
	// driver follows.
	Dialect() *dialect.Dialect
}
