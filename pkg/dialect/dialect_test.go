package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{Standard, "standard"},
		{SQLiteLike, "sqlite-like"},
		{Mode(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.String())
		})
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{Standard, SQLiteLike} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMode(" SQLite-Like ")
	require.NoError(t, err)
	assert.Equal(t, SQLiteLike, got)

	_, err = ParseMode("native")
	assert.ErrorContains(t, err, `unknown dialect mode "native"`)
}

func TestFormatPlaceholder(t *testing.T) {
	assert.Equal(t, "?", SQLite.FormatPlaceholder(1))
	assert.Equal(t, "?", DuckDB.FormatPlaceholder(3))
	assert.Equal(t, "$1", Postgres.FormatPlaceholder(1))
	assert.Equal(t, "$12", Postgres.FormatPlaceholder(12))
}

func TestQuoteIdentifier(t *testing.T) {
	d := NewDialect("test").Build()
	assert.Equal(t, `"created_at"`, d.QuoteIdentifier("created_at"))
	assert.Equal(t, `"we""ird"`, d.QuoteIdentifier(`we"ird`))

	brackets := NewDialect("brackets").Identifiers("[", "]", "]]").Build()
	assert.Equal(t, "[a]]b]", brackets.QuoteIdentifier("a]b"))
}

func TestBuilderDefaults(t *testing.T) {
	d := NewDialect("plain").Build()

	assert.Equal(t, Standard, d.Mode)
	assert.Equal(t, "DATE", d.DateType)
	assert.Equal(t, "TIMESTAMP", d.DateTimeType)
	assert.False(t, d.IsSQLiteLike())
}

func TestRegistry_Builtins(t *testing.T) {
	names := List()
	assert.Contains(t, names, "sqlite")
	assert.Contains(t, names, "duckdb")
	assert.Contains(t, names, "postgres")

	d, ok := Get("SQLite")
	require.True(t, ok, "lookup is case insensitive")
	assert.True(t, d.IsSQLiteLike())
	assert.Equal(t, "DATETIME", d.DateTimeType)
}

func TestModeFor(t *testing.T) {
	assert.Equal(t, SQLiteLike, ModeFor("sqlite"))
	assert.Equal(t, Standard, ModeFor("duckdb"))
	assert.Equal(t, Standard, ModeFor("postgres"))
	assert.Equal(t, Standard, ModeFor("no_such_backend"))
}

func TestRegister_Custom(t *testing.T) {
	Register(NewDialect("custom_text_store").Mode(SQLiteLike).Build())

	assert.Equal(t, SQLiteLike, ModeFor("custom_text_store"))
	assert.NotPanics(t, func() { MustGet("custom_text_store") })
	assert.Panics(t, func() { MustGet("never_registered") })
}

func TestIsSQLiteLike_Nil(t *testing.T) {
	var d *Dialect
	assert.False(t, d.IsSQLiteLike())
}
