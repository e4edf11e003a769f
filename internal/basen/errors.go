package basen

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when decoding an empty string.
	ErrEmptyInput = errors.New("basen: empty input")
	// ErrFormat is returned when a token is not a well-formed number in the
	// target alphabet.
	ErrFormat = errors.New("basen: invalid format")
	// ErrArgumentRange is returned for an invalid alphabet configuration or
	// a value that does not fit the requested integer width.
	ErrArgumentRange = errors.New("basen: argument out of range")
)

// FormatError reports a rune that is not a member of the alphabet.
type FormatError struct {
	Alphabet string
	Rune     rune
	Pos      int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("basen: invalid %s character %q at position %d", e.Alphabet, e.Rune, e.Pos)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}
