// Package dialect describes the SQL backends a date column can be stored in.
//
// A Dialect carries the pieces of backend knowledge the column codec and the
// table layer need: how the backend hands date values back (Mode), how query
// parameters are written, and which column types hold dates and timestamps.
// Builtin dialects are registered when the package is loaded.
package dialect

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects the text conventions a backend uses for date values.
type Mode int

const (
	// Standard backends return native date/timestamp values from their drivers.
	Standard Mode = iota
	// SQLiteLike backends store dates as text and need it parsed on the way back.
	SQLiteLike
)

// String returns the string representation of Mode.
func (m Mode) String() string {
	switch m {
	case Standard:
		return "standard"
	case SQLiteLike:
		return "sqlite-like"
	default:
		return "unknown"
	}
}

// ParseMode parses the String form of a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard":
		return Standard, nil
	case "sqlite-like", "sqlitelike":
		return SQLiteLike, nil
	}
	return Standard, fmt.Errorf("unknown dialect mode %q (want standard or sqlite-like)", s)
}

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

// IdentifierConfig defines how identifiers are quoted.
type IdentifierConfig struct {
	Quote    string // Quote character: ", `, [
	QuoteEnd string // End quote character (usually same as Quote, ] for [)
	Escape   string // Escape sequence: "", ``, ]]
}

// Dialect represents a SQL backend configuration.
type Dialect struct {
	Name        string
	Mode        Mode
	Identifiers IdentifierConfig

	// Database-specific settings
	DefaultSchema string           // Default schema name ("main" for DuckDB, "public" for Postgres)
	Placeholder   PlaceholderStyle // How to format query parameters

	// Column types used for DATE and DATETIME columns
	DateType     string
	DateTimeType string
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., ] -> ]])
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// IsSQLiteLike reports whether the dialect parses date text on read.
func (d *Dialect) IsSQLiteLike() bool {
	return d != nil && d.Mode == SQLiteLike
}

// Builder constructs a Dialect.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name: name,
			Mode: Standard,
			Identifiers: IdentifierConfig{
				Quote:    `"`,
				QuoteEnd: `"`,
				Escape:   `""`,
			},
			DateType:     "DATE",
			DateTimeType: "TIMESTAMP",
		},
	}
}

// Mode sets how the backend hands date values back.
func (b *Builder) Mode(m Mode) *Builder {
	b.dialect.Mode = m
	return b
}

// Identifiers sets identifier quoting.
func (b *Builder) Identifiers(quote, quoteEnd, escape string) *Builder {
	b.dialect.Identifiers = IdentifierConfig{Quote: quote, QuoteEnd: quoteEnd, Escape: escape}
	return b
}

// DefaultSchema sets the default schema name.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.dialect.DefaultSchema = schema
	return b
}

// PlaceholderStyle sets how query parameters are formatted.
func (b *Builder) PlaceholderStyle(style PlaceholderStyle) *Builder {
	b.dialect.Placeholder = style
	return b
}

// ColumnTypes sets the column types used for DATE and DATETIME columns.
func (b *Builder) ColumnTypes(date, dateTime string) *Builder {
	b.dialect.DateType = date
	b.dialect.DateTimeType = dateTime
	return b
}

// Build returns the configured dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}
