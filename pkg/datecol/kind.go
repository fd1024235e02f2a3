package datecol

import (
	"fmt"
	"strings"
)

// Kind fixes which of the date or datetime formats a column uses.
type Kind int

const (
	// KindDate columns store a calendar date.
	KindDate Kind = iota
	// KindDateTime columns store a date and a time of day.
	KindDateTime
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// ParseKind parses "date" or "datetime" (case insensitive).
// "timestamp" is accepted as an alias for datetime.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "date":
		return KindDate, nil
	case "datetime", "timestamp":
		return KindDateTime, nil
	default:
		return 0, fmt.Errorf("unknown column kind %q (want date or datetime)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
