package datecol

import (
	"database/sql"
	"database/sql/driver"

	"github.com/leapstack-labs/datecol/pkg/datetime"
)

// Value is a nullable scan target and bind argument for date columns.
//
// After Scan, DateTime holds the decoded value, or Undecoded is set and Raw
// holds the text a standard dialect handed back. Raw may be empty.
type Value struct {
	Codec     Codec
	DateTime  datetime.DateTime
	Raw       string
	Undecoded bool
	Valid     bool
}

var (
	_ sql.Scanner   = (*Value)(nil)
	_ driver.Valuer = Value{}
)

// NewValue returns an empty Value converting through c.
func NewValue(c Codec) *Value {
	return &Value{Codec: c}
}

// Decoded reports whether the value holds a DateTime rather than raw text.
func (v *Value) Decoded() bool {
	return v.Valid && !v.Undecoded
}

// Scan implements sql.Scanner.
func (v *Value) Scan(src any) error {
	v.DateTime, v.Raw, v.Undecoded, v.Valid = datetime.DateTime{}, "", false, false
	if src == nil {
		return nil
	}

	out, err := v.Codec.FromDriverValue(v.Codec.Classify(src))
	if err != nil {
		return err
	}
	switch x := out.(type) {
	case Domain:
		v.DateTime = x.DateTime
	case Text:
		v.Raw, v.Undecoded = string(x), true
	default:
		return unsupported(out)
	}
	v.Valid = true
	return nil
}

// Value implements driver.Valuer.
func (v Value) Value() (driver.Value, error) {
	if !v.Valid {
		return nil, nil
	}
	if v.Undecoded {
		return v.Raw, nil
	}
	return Bindable(v.Codec.ToDriverValue(Domain{v.DateTime})), nil
}
