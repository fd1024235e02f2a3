package datecol

import (
	"time"

	"github.com/leapstack-labs/datecol/pkg/dialect"
	"github.com/leapstack-labs/datecol/pkg/schema"
)

// Date registers a column storing a calendar date.
func Date(t *schema.Table, name string) *schema.Column {
	return t.RegisterColumn(name, &ColumnType{Kind: KindDate})
}

// DateTime registers a column storing a date and a time of day.
func DateTime(t *schema.Table, name string) *schema.Column {
	return t.RegisterColumn(name, &ColumnType{Kind: KindDateTime})
}

// ColumnType is the schema.ColumnType for DATE and DATETIME columns.
// A nil Location means time.Local.
type ColumnType struct {
	Kind     Kind
	Location *time.Location
}

var _ schema.ColumnType = (*ColumnType)(nil)

// Codec returns the codec for this column under d.
func (ct *ColumnType) Codec(d *dialect.Dialect) Codec {
	return ForDialect(ct.Kind, d, ct.Location)
}

// SQLType implements schema.ColumnType.
func (ct *ColumnType) SQLType(d *dialect.Dialect) string {
	if ct.Kind == KindDateTime {
		return d.DateTimeType
	}
	return d.DateType
}

// NonNullValueToString implements schema.ColumnType.
func (ct *ColumnType) NonNullValueToString(v any) (string, error) {
	return ct.Codec(nil).ToLiteralText(Classify(v))
}

// ValueFromDB implements schema.ColumnType. It returns a datetime.DateTime,
// or the driver's string when a standard dialect hands back text.
func (ct *ColumnType) ValueFromDB(d *dialect.Dialect, v any) (any, error) {
	c := ct.Codec(d)
	out, err := c.FromDriverValue(c.Classify(v))
	if err != nil {
		return nil, err
	}
	switch x := out.(type) {
	case Domain:
		return x.DateTime, nil
	case Text:
		return string(x), nil
	default:
		return Bindable(out), nil
	}
}

// NotNullValueToDB implements schema.ColumnType. DateTime values become
// native timestamps or dates; anything else is returned as given.
func (ct *ColumnType) NotNullValueToDB(v any) (any, error) {
	dv := Classify(v)
	if _, ok := dv.(Domain); !ok {
		return v, nil
	}
	return Bindable(ct.Codec(nil).ToDriverValue(dv)), nil
}
