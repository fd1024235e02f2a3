// Package datecol stores datetime.DateTime values in DATE and DATETIME
// columns.
//
// The Codec converts between the in-memory DateTime, the values database
// drivers accept and return, and literal text embedded in generated SQL.
// ColumnType plugs a Codec into a schema.Table; Date and DateTime are the
// entry points table authors use.
package datecol

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/datecol/pkg/datetime"
	"github.com/leapstack-labs/datecol/pkg/dialect"
)

// Literal and parse patterns. YYYY is the year of era, the calendar year
// for dates of the common era.
var (
	DefaultDatePattern     = MustCompilePattern("YYYY-MM-dd").WithLocale(language.Und)
	DefaultDateTimePattern = MustCompilePattern("YYYY-MM-dd HH:mm:ss.SSSSSS").WithLocale(language.Und)
	SQLiteDateTimePattern  = MustCompilePattern("YYYY-MM-dd HH:mm:ss")
	SQLiteDatePattern      = MustCompilePattern("yyyy-MM-dd")
)

// Codec converts date values for one column kind under one dialect mode.
// The zero Location means time.Local.
type Codec struct {
	Kind     Kind
	Mode     dialect.Mode
	Location *time.Location
}

// New returns a Codec for kind and mode in the local time zone.
func New(kind Kind, mode dialect.Mode) Codec {
	return Codec{Kind: kind, Mode: mode, Location: time.Local}
}

// ForDialect returns a Codec for kind using the mode of d.
// A nil dialect means Standard.
func ForDialect(kind Kind, d *dialect.Dialect, loc *time.Location) Codec {
	mode := dialect.Standard
	if d != nil {
		mode = d.Mode
	}
	return Codec{Kind: kind, Mode: mode, Location: loc}
}

func (c Codec) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// ToLiteralText renders v as a quoted SQL literal.
// Text is returned unchanged; Domain, SQLTimestamp and SQLDate are formatted.
// Any other shape fails with ErrUnsupportedValueKind.
func (c Codec) ToLiteralText(v DriverValue) (string, error) {
	if text, ok := v.(Text); ok {
		return string(text), nil
	}

	var d datetime.DateTime
	switch x := v.(type) {
	case Domain:
		d = x.DateTime
	case SQLTimestamp:
		var err error
		if d, err = c.fromTimestamp(x); err != nil {
			return "", err
		}
	case SQLDate:
		var err error
		if d, err = c.fromDate(x); err != nil {
			return "", err
		}
	default:
		return "", unsupported(v)
	}

	if c.Kind == KindDateTime {
		return "'" + DefaultDateTimePattern.Format(d.In(c.location()).Time()) + "'", nil
	}
	return "'" + DefaultDatePattern.Format(d.Time()) + "'", nil
}

// FromDriverValue converts a value handed back by a driver to Domain.
//
// Under the Standard mode a Text value is returned unchanged and left to the
// caller; SQLiteLike parses it. Other is parsed from its fmt.Sprint text.
func (c Codec) FromDriverValue(v DriverValue) (DriverValue, error) {
	loc := c.location()

	switch x := v.(type) {
	case Domain:
		return x, nil
	case SQLTimestamp:
		d, err := c.fromTimestamp(x)
		if err != nil {
			return nil, err
		}
		return Domain{d}, nil
	case SQLDate:
		d, err := c.fromDate(x)
		if err != nil {
			return nil, err
		}
		return Domain{d}, nil
	case EpochMillis:
		return Domain{datetime.FromMillis(int64(x), loc)}, nil
	case EpochSeconds:
		return Domain{datetime.FromUnix(int64(x), loc)}, nil
	case Text:
		if c.Mode != dialect.SQLiteLike {
			return x, nil
		}
		p := SQLiteDatePattern
		if c.Kind == KindDateTime {
			p = SQLiteDateTimePattern
		}
		d, err := parseWith(p, string(x), loc)
		if err != nil {
			return nil, err
		}
		return Domain{d}, nil
	case Other:
		d, err := parseWith(DefaultDateTimePattern, fmt.Sprint(x.V), loc)
		if err != nil {
			return nil, err
		}
		return Domain{d}, nil
	default:
		return nil, unsupported(v)
	}
}

// ToDriverValue converts Domain to SQLTimestamp (KindDateTime) or SQLDate at
// millisecond precision. Every other shape passes through unchanged.
func (c Codec) ToDriverValue(v DriverValue) DriverValue {
	d, ok := v.(Domain)
	if !ok {
		return v
	}
	t := time.UnixMilli(d.Millis()).In(c.location())
	if c.Kind == KindDateTime {
		return NewSQLTimestamp(t)
	}
	return NewSQLDate(t)
}

// Classify is like the package-level Classify, except that a time.Time read
// for a KindDate codec is a SQLDate. database/sql drivers return DATE
// columns as time.Time at UTC midnight.
func (c Codec) Classify(v any) DriverValue {
	dv := Classify(v)
	if ts, ok := dv.(SQLTimestamp); ok && c.Kind == KindDate && isTime(v) {
		return SQLDate{pgtype.Date{Time: ts.Time, InfinityModifier: ts.InfinityModifier, Valid: ts.Valid}}
	}
	return dv
}

// Decode classifies v and converts it to a DateTime.
// Text left unparsed under the Standard mode fails with ErrUndecodedText.
func (c Codec) Decode(v any) (datetime.DateTime, error) {
	out, err := c.FromDriverValue(c.Classify(v))
	if err != nil {
		return datetime.DateTime{}, err
	}
	switch x := out.(type) {
	case Domain:
		return x.DateTime, nil
	case Text:
		return datetime.DateTime{}, fmt.Errorf("%w: %q", ErrUndecodedText, string(x))
	default:
		return datetime.DateTime{}, unsupported(out)
	}
}

// Encode classifies v and returns the value to bind for it.
func (c Codec) Encode(v any) any {
	return Bindable(c.ToDriverValue(Classify(v)))
}

func (c Codec) fromTimestamp(ts SQLTimestamp) (datetime.DateTime, error) {
	if !ts.Valid || ts.InfinityModifier != pgtype.Finite {
		return datetime.DateTime{}, unsupported(ts)
	}
	return datetime.FromMillis(ts.Time.UnixMilli(), c.location()), nil
}

// fromDate reads the calendar fields of the date, so dates that drivers
// return at UTC midnight keep their day in every zone.
func (c Codec) fromDate(d SQLDate) (datetime.DateTime, error) {
	if !d.Valid || d.InfinityModifier != pgtype.Finite {
		return datetime.DateTime{}, unsupported(d)
	}
	y, m, day := d.Time.Date()
	return datetime.Of(y, m, day, 0, 0, 0, 0, c.location()), nil
}

func isTime(v any) bool {
	switch v.(type) {
	case time.Time, *time.Time:
		return true
	}
	return false
}

func parseWith(p *Pattern, text string, loc *time.Location) (datetime.DateTime, error) {
	t, err := p.Parse(text, loc)
	if err != nil {
		return datetime.DateTime{}, &UnparsableLiteralError{Text: text, Pattern: p.String(), Err: err}
	}
	return datetime.New(t), nil
}

func unsupported(v DriverValue) error {
	if o, ok := v.(Other); ok {
		return &UnsupportedValueError{Value: o.V}
	}
	return &UnsupportedValueError{Value: v}
}
