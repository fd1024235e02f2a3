// Package config loads datecol CLI configuration from defaults, datecol.yaml,
// DATECOL_ environment variables and command-line flags.
package config

import (
	"github.com/leapstack-labs/datecol/pkg/adapter"
	"github.com/leapstack-labs/datecol/pkg/datecol"
)

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // sqlite, duckdb, postgres

	// File-based databases (SQLite, DuckDB)
	Database string `koanf:"database"` // file path or database name

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	Schema string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// AdapterConfig converts the target to an adapter.Config.
func (t TargetConfig) AdapterConfig() adapter.Config {
	return adapter.Config{
		Type:     t.Type,
		Path:     t.Database,
		Database: t.Database,
		Host:     t.Host,
		Port:     t.Port,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
	}
}

// Config holds all CLI configuration options.
type Config struct {
	Dialect   string                  `koanf:"dialect"`
	Kind      datecol.Kind            `koanf:"kind"`
	Timezone  string                  `koanf:"timezone"`
	Locale    string                  `koanf:"locale"`
	Output    string                  `koanf:"output"`
	StatePath string                  `koanf:"state_path"`
	Verbose   bool                    `koanf:"verbose"`
	Targets   map[string]TargetConfig `koanf:"targets"`
}

// Default configuration values.
const (
	DefaultDialect   = "sqlite"
	DefaultKind      = "datetime"
	DefaultTimezone  = "Local"
	DefaultLocale    = "und"
	DefaultOutput    = "auto" // Auto-detect: TTY=table, non-TTY=json
	DefaultStateFile = ".datecol/state.db"
)

// Output formats.
const (
	OutputAuto  = "auto"
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Default returns the configuration used when no file, environment or flag
// sets a value.
func Default() *Config {
	return &Config{
		Dialect:   DefaultDialect,
		Kind:      datecol.KindDateTime,
		Timezone:  DefaultTimezone,
		Locale:    DefaultLocale,
		Output:    DefaultOutput,
		StatePath: DefaultStateFile,
	}
}
