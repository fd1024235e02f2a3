// Package datetime provides DateTime, an immutable point in time paired with
// the time zone it is displayed in.
//
// A DateTime is what table authors hold in memory for date and datetime
// columns. It keeps full nanosecond precision; database conversions work on
// the epoch-millisecond instant returned by Millis.
package datetime

import (
	"time"
)

// DateTime is an immutable instant with a display zone.
// The zero value matches the zero time.Time.
type DateTime struct {
	t time.Time
}

// New wraps t. The location of t becomes the display zone.
func New(t time.Time) DateTime {
	return DateTime{t: t}
}

// Of builds a DateTime from calendar fields in loc.
// A nil loc means time.Local.
func Of(year int, month time.Month, day, hour, minute, sec, nsec int, loc *time.Location) DateTime {
	return DateTime{t: time.Date(year, month, day, hour, minute, sec, nsec, orLocal(loc))}
}

// FromMillis builds a DateTime from milliseconds since the Unix epoch,
// displayed in loc (time.Local when nil).
func FromMillis(ms int64, loc *time.Location) DateTime {
	return DateTime{t: time.UnixMilli(ms).In(orLocal(loc))}
}

// FromUnix builds a DateTime from seconds since the Unix epoch,
// displayed in loc (time.Local when nil).
func FromUnix(sec int64, loc *time.Location) DateTime {
	return DateTime{t: time.Unix(sec, 0).In(orLocal(loc))}
}

// Now returns the current instant displayed in loc (time.Local when nil).
func Now(loc *time.Location) DateTime {
	return DateTime{t: time.Now().In(orLocal(loc))}
}

// Time returns the underlying time.Time in the display zone.
func (d DateTime) Time() time.Time {
	return d.t
}

// Millis returns milliseconds since the Unix epoch.
func (d DateTime) Millis() int64 {
	return d.Time().UnixMilli()
}

// Zone returns the display zone.
func (d DateTime) Zone() *time.Location {
	return d.Time().Location()
}

// In returns the same instant displayed in loc.
func (d DateTime) In(loc *time.Location) DateTime {
	return DateTime{t: d.Time().In(orLocal(loc))}
}

// TruncateMillis drops precision below one millisecond.
func (d DateTime) TruncateMillis() DateTime {
	return FromMillis(d.Millis(), d.Zone())
}

// Date returns the calendar date in the display zone.
func (d DateTime) Date() (year int, month time.Month, day int) {
	return d.Time().Date()
}

// StartOfDay returns midnight of the same calendar date in the display zone.
func (d DateTime) StartOfDay() DateTime {
	y, m, day := d.Date()
	return DateTime{t: time.Date(y, m, day, 0, 0, 0, 0, d.Zone())}
}

// Equal reports whether both values denote the same instant,
// regardless of display zone.
func (d DateTime) Equal(other DateTime) bool {
	return d.Time().Equal(other.Time())
}

// Before reports whether d is before other.
func (d DateTime) Before(other DateTime) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is after other.
func (d DateTime) After(other DateTime) bool {
	return d.Time().After(other.Time())
}

// String formats d as RFC 3339 with nanoseconds.
func (d DateTime) String() string {
	return d.Time().Format(time.RFC3339Nano)
}

// MarshalText implements encoding.TextMarshaler.
func (d DateTime) MarshalText() ([]byte, error) {
	return d.Time().MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DateTime) UnmarshalText(data []byte) error {
	var t time.Time
	if err := t.UnmarshalText(data); err != nil {
		return err
	}
	d.t = t
	return nil
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
