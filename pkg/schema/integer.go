package schema

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/datecol/pkg/dialect"
)

// IntegerType stores int64 values. Go ints and bools are accepted on write;
// bools are stored as 0 and 1.
type IntegerType struct{}

// Integer registers an INTEGER column.
func (t *Table) Integer(name string) *Column {
	return t.RegisterColumn(name, IntegerType{})
}

// SQLType implements ColumnType.
func (IntegerType) SQLType(*dialect.Dialect) string { return "INTEGER" }

// NonNullValueToString implements ColumnType.
func (IntegerType) NonNullValueToString(v any) (string, error) {
	n, err := asInt64(v)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}

// ValueFromDB implements ColumnType.
func (IntegerType) ValueFromDB(_ *dialect.Dialect, v any) (any, error) {
	return asInt64(v)
}

// NotNullValueToDB implements ColumnType.
func (IntegerType) NotNullValueToDB(v any) (any, error) {
	return asInt64(v)
}

func asInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return strconv.ParseInt(string(x), 10, 64)
	case string:
		return strconv.ParseInt(x, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected value %v of %T for integer column", v, v)
	}
}
