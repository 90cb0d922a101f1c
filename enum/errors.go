// Package enum holds the closed enumerations used by the HTML element
// bindings together with their native encodings.
//
// Every enumeration has exactly one canonical native encoding per tag.
// Decoding is strict: a native value outside the documented set is reported
// as an *UnrecognizedEncodingError rather than mapped to a default.
package enum

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedEncoding is matched by every *UnrecognizedEncodingError.
var ErrUnrecognizedEncoding = errors.New("unrecognized encoding")

// UnrecognizedEncodingError reports a native value that has no tag in the
// named enumeration.
type UnrecognizedEncodingError struct {
	Enum  string
	Value any
}

func (e *UnrecognizedEncodingError) Error() string {
	return fmt.Sprintf("%s: unrecognized encoding %#v", e.Enum, e.Value)
}

// Is makes errors.Is(err, ErrUnrecognizedEncoding) hold.
func (e *UnrecognizedEncodingError) Is(target error) bool {
	return target == ErrUnrecognizedEncoding
}

func unrecognized(enum string, value any) error {
	return &UnrecognizedEncodingError{Enum: enum, Value: value}
}
