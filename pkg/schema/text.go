package schema

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/datecol/pkg/dialect"
)

// TextType stores strings.
type TextType struct{}

// Text registers a TEXT column.
func (t *Table) Text(name string) *Column {
	return t.RegisterColumn(name, TextType{})
}

// SQLType implements ColumnType.
func (TextType) SQLType(*dialect.Dialect) string { return "TEXT" }

// NonNullValueToString implements ColumnType.
func (TextType) NonNullValueToString(v any) (string, error) {
	s, err := asString(v)
	if err != nil {
		return "", err
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'", nil
}

// ValueFromDB implements ColumnType.
func (TextType) ValueFromDB(_ *dialect.Dialect, v any) (any, error) {
	return asString(v)
}

// NotNullValueToDB implements ColumnType.
func (TextType) NotNullValueToDB(v any) (any, error) {
	return asString(v)
}

func asString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case fmt.Stringer:
		return x.String(), nil
	default:
		return "", fmt.Errorf("unexpected value %v of %T for text column", v, v)
	}
}
