package datecol

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/leapstack-labs/datecol/pkg/datetime"
)

// DriverValue is one of the value shapes a driver hands back or accepts:
// SQLTimestamp, SQLDate, Text, EpochMillis, EpochSeconds, Domain or Other.
// The set is closed; Classify maps arbitrary driver values onto it.
type DriverValue interface {
	isDriverValue()
}

// SQLTimestamp is a native timestamp value.
type SQLTimestamp struct {
	pgtype.Timestamp
}

// SQLDate is a native date value. Only its calendar fields are meaningful.
type SQLDate struct {
	pgtype.Date
}

// Text is a textual literal.
type Text string

// EpochMillis is an integer count of milliseconds since the Unix epoch.
type EpochMillis int64

// EpochSeconds is an integer count of seconds since the Unix epoch.
type EpochSeconds int64

// Domain is an in-memory DateTime.
type Domain struct {
	datetime.DateTime
}

// Other is any value outside the recognized shapes.
type Other struct {
	V any
}

func (SQLTimestamp) isDriverValue() {}
func (SQLDate) isDriverValue()      {}
func (Text) isDriverValue()         {}
func (EpochMillis) isDriverValue()  {}
func (EpochSeconds) isDriverValue() {}
func (Domain) isDriverValue()       {}
func (Other) isDriverValue()        {}

// NewSQLTimestamp wraps t as a valid native timestamp.
func NewSQLTimestamp(t time.Time) SQLTimestamp {
	return SQLTimestamp{pgtype.Timestamp{Time: t, Valid: true}}
}

// NewSQLDate wraps t as a valid native date.
func NewSQLDate(t time.Time) SQLDate {
	return SQLDate{pgtype.Date{Time: t, Valid: true}}
}

// NewDomain wraps d.
func NewDomain(d datetime.DateTime) Domain {
	return Domain{d}
}

// Classify maps a value returned by a database/sql driver, or supplied by a
// table author, onto the DriverValue variants.
//
// time.Time is treated as a timestamp since database/sql drivers use it for
// every date-like column. Signed integers are epoch milliseconds.
func Classify(v any) DriverValue {
	switch x := v.(type) {
	case DriverValue:
		return x
	case datetime.DateTime:
		return Domain{x}
	case *datetime.DateTime:
		if x != nil {
			return Domain{*x}
		}
	case time.Time:
		return NewSQLTimestamp(x)
	case *time.Time:
		if x != nil {
			return NewSQLTimestamp(*x)
		}
	case pgtype.Timestamp:
		return SQLTimestamp{x}
	case pgtype.Timestamptz:
		return SQLTimestamp{pgtype.Timestamp{Time: x.Time, InfinityModifier: x.InfinityModifier, Valid: x.Valid}}
	case pgtype.Date:
		return SQLDate{x}
	case string:
		return Text(x)
	case []byte:
		return Text(string(x))
	case int:
		return EpochMillis(int64(x))
	case int32:
		return EpochMillis(int64(x))
	case int64:
		return EpochMillis(x)
	}
	return Other{V: v}
}

// Bindable returns the value to hand to database/sql for v.
// Native values are returned as time.Time, which every driver accepts;
// Other is unwrapped.
func Bindable(v DriverValue) any {
	switch x := v.(type) {
	case SQLTimestamp:
		return x.Time
	case SQLDate:
		return x.Time
	case Text:
		return string(x)
	case EpochMillis:
		return int64(x)
	case EpochSeconds:
		return int64(x)
	case Domain:
		return x.DateTime
	case Other:
		return x.V
	default:
		return nil
	}
}
