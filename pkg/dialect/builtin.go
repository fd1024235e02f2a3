package dialect

// SQLite stores DATE and DATETIME as text.
var SQLite = NewDialect("sqlite").
	Mode(SQLiteLike).
	DefaultSchema("main").
	PlaceholderStyle(PlaceholderQuestion).
	ColumnTypes("DATE", "DATETIME").
	Build()

// DuckDB hands back native DATE and TIMESTAMP values.
var DuckDB = NewDialect("duckdb").
	DefaultSchema("main").
	PlaceholderStyle(PlaceholderQuestion).
	ColumnTypes("DATE", "TIMESTAMP").
	Build()

// Postgres hands back native date and timestamp values.
var Postgres = NewDialect("postgres").
	DefaultSchema("public").
	PlaceholderStyle(PlaceholderDollar).
	ColumnTypes("DATE", "TIMESTAMP").
	Build()

func init() {
	Register(SQLite)
	Register(DuckDB)
	Register(Postgres)
}
