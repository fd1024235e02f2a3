// Package schema is a small table-definition layer.
//
// A Table is a named list of columns, each bound to a ColumnType that knows
// how to render, bind and read its values. Column types come from other
// packages and attach themselves through Table.RegisterColumn; the table
// generates the DDL, INSERT and SELECT statements used to move rows.
package schema

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/datecol/pkg/dialect"
)

// ColumnType is the descriptor a column type registers on a table.
// The host never passes nil values to the NonNull/NotNull hooks.
type ColumnType interface {
	// SQLType returns the column type used in CREATE TABLE.
	SQLType(d *dialect.Dialect) string

	// NonNullValueToString renders v as literal SQL text.
	NonNullValueToString(v any) (string, error)

	// ValueFromDB converts a value returned by the driver.
	ValueFromDB(d *dialect.Dialect, v any) (any, error)

	// NotNullValueToDB converts v to a value the driver can bind.
	NotNullValueToDB(v any) (any, error)
}

// Row maps column names to values. A missing or nil entry is NULL.
type Row map[string]any

// Table is a table definition.
type Table struct {
	Name    string
	columns []*Column
	byName  map[string]*Column
}

// NewTable creates an empty table definition.
func NewTable(name string) *Table {
	return &Table{Name: name, byName: make(map[string]*Column)}
}

// RegisterColumn attaches a column of type ct and returns it for further
// chaining. It panics if the name is already taken.
func (t *Table) RegisterColumn(name string, ct ColumnType) *Column {
	if _, exists := t.byName[name]; exists {
		panic(fmt.Sprintf("schema: column %s.%s registered twice", t.Name, name))
	}
	c := &Column{Table: t, Name: name, Type: ct}
	t.columns = append(t.columns, c)
	t.byName[name] = c
	return c
}

// Columns returns the columns in registration order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// Column is a column handle.
type Column struct {
	Table      *Table
	Name       string
	Type       ColumnType
	nullable   bool
	primaryKey bool
}

// Nullable allows NULL in the column.
func (c *Column) Nullable() *Column {
	c.nullable = true
	return c
}

// PrimaryKey marks the column as the primary key.
func (c *Column) PrimaryKey() *Column {
	c.primaryKey = true
	return c
}

// IsNullable reports whether the column allows NULL.
func (c *Column) IsNullable() bool { return c.nullable }

// IsPrimaryKey reports whether the column is the primary key.
func (c *Column) IsPrimaryKey() bool { return c.primaryKey }

// CreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement.
func (t *Table) CreateTableSQL(d *dialect.Dialect) string {
	defs := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		def := d.QuoteIdentifier(c.Name) + " " + c.Type.SQLType(d)
		if c.primaryKey {
			def += " PRIMARY KEY"
		} else if !c.nullable {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.QuoteIdentifier(t.Name), strings.Join(defs, ", "))
}

// InsertSQL returns an INSERT statement with one placeholder per column.
func (t *Table) InsertSQL(d *dialect.Dialect) string {
	placeholders := make([]string, len(t.columns))
	for i := range t.columns {
		placeholders[i] = d.FormatPlaceholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdentifier(t.Name), t.columnList(d), strings.Join(placeholders, ", "))
}

// InsertArgs converts row to the arguments for InsertSQL.
func (t *Table) InsertArgs(row Row) ([]any, error) {
	args := make([]any, len(t.columns))
	for i, c := range t.columns {
		v := row[c.Name]
		if v == nil {
			if !c.nullable {
				return nil, fmt.Errorf("column %s is not nullable", c.Name)
			}
			continue
		}
		bound, err := c.Type.NotNullValueToDB(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		args[i] = bound
	}
	return args, nil
}

// InsertLiteralSQL returns an INSERT statement with every value rendered as
// literal SQL text.
func (t *Table) InsertLiteralSQL(d *dialect.Dialect, row Row) (string, error) {
	values := make([]string, len(t.columns))
	for i, c := range t.columns {
		v := row[c.Name]
		if v == nil {
			if !c.nullable {
				return "", fmt.Errorf("column %s is not nullable", c.Name)
			}
			values[i] = "NULL"
			continue
		}
		lit, err := c.Type.NonNullValueToString(v)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", c.Name, err)
		}
		values[i] = lit
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdentifier(t.Name), t.columnList(d), strings.Join(values, ", ")), nil
}

// SelectSQL returns a SELECT of every column, optionally filtered by a
// placeholder comparison on the where column.
func (t *Table) SelectSQL(d *dialect.Dialect, where string) string {
	q := fmt.Sprintf("SELECT %s FROM %s", t.columnList(d), d.QuoteIdentifier(t.Name))
	if where != "" {
		q += fmt.Sprintf(" WHERE %s = %s", d.QuoteIdentifier(where), d.FormatPlaceholder(1))
	}
	return q
}

// RowScanner is implemented by *sql.Rows and *sql.Row.
type RowScanner interface {
	Scan(dest ...any) error
}

// ScanRow scans one row selected by SelectSQL and converts each value
// through its column type.
func (t *Table) ScanRow(d *dialect.Dialect, rs RowScanner) (Row, error) {
	raw := make([]any, len(t.columns))
	ptrs := make([]any, len(t.columns))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rs.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(Row, len(t.columns))
	for i, c := range t.columns {
		if raw[i] == nil {
			row[c.Name] = nil
			continue
		}
		v, err := c.Type.ValueFromDB(d, raw[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		row[c.Name] = v
	}
	return row, nil
}

func (t *Table) columnList(d *dialect.Dialect) string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = d.QuoteIdentifier(c.Name)
	}
	return strings.Join(names, ", ")
}
