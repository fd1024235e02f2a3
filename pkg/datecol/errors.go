package datecol

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedValueKind is returned when a value has none of the shapes
	// a conversion accepts.
	ErrUnsupportedValueKind = errors.New("unsupported value kind")

	// ErrUnparsableLiteral is returned when date text does not match the
	// pattern selected by the dialect and column kind.
	ErrUnparsableLiteral = errors.New("unparsable date literal")

	// ErrUndecodedText is returned by Decode when a standard dialect hands
	// back text, which FromDriverValue leaves to the caller.
	ErrUndecodedText = errors.New("date text not decoded under standard dialect")
)

// UnsupportedValueError reports the value that could not be converted.
type UnsupportedValueError struct {
	Value any
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("%s: %v of %T", ErrUnsupportedValueKind, e.Value, e.Value)
}

// Unwrap returns ErrUnsupportedValueKind.
func (e *UnsupportedValueError) Unwrap() error {
	return ErrUnsupportedValueKind
}

// UnparsableLiteralError reports text that failed to parse.
type UnparsableLiteralError struct {
	Text    string
	Pattern string
	Err     error
}

func (e *UnparsableLiteralError) Error() string {
	return fmt.Sprintf("%s: %q does not match %q: %v", ErrUnparsableLiteral, e.Text, e.Pattern, e.Err)
}

// Unwrap returns ErrUnparsableLiteral and the underlying parse error.
func (e *UnparsableLiteralError) Unwrap() []error {
	return []error{ErrUnparsableLiteral, e.Err}
}
