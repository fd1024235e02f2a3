// Package duckdb provides a DuckDB database adapter.
package duckdb

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"

	"github.com/leapstack-labs/datecol/pkg/adapter"
	"github.com/leapstack-labs/datecol/pkg/dialect"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

var settingName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: adapter.DiscardIfNil(logger)},
	}
}

// Dialect returns the duckdb dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return dialect.DuckDB
}

// Connect establishes a connection to DuckDB.
// Use ":memory:" as the path for an in-memory database. Entries in
// cfg.Options are applied as session settings (SET key = 'value').
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" || path == ":memory:" {
		path = ""
	}

	a.Logger.Debug("connecting to duckdb", slog.String("path", cfg.Path))
	if err := a.OpenAndPing(ctx, "duckdb", path, cfg); err != nil {
		return err
	}
	if path == "" {
		a.DB.SetMaxOpenConns(1)
	}

	if err := a.applySettings(ctx, cfg.Options); err != nil {
		_ = a.Close()
		return err
	}
	return nil
}

func (a *Adapter) applySettings(ctx context.Context, settings map[string]string) error {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		stmt, err := settingSQL(k, settings[k])
		if err != nil {
			return err
		}
		if err := a.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply setting %s: %w", k, err)
		}
	}
	return nil
}

func settingSQL(key, value string) (string, error) {
	if !settingName.MatchString(key) {
		return "", fmt.Errorf("invalid setting name %q", key)
	}
	return fmt.Sprintf("SET %s = %s", key, quoteString(value)), nil
}

func quoteString(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'')
		}
		out = append(out, s[i])
	}
	return string(append(out, '\''))
}

var _ adapter.Adapter = (*Adapter)(nil)
