package enum

import (
	"math"

	"gopkg.in/guregu/null.v3"
)

// DecodeBool decodes an exported native boolean. Besides true and false the
// integer sentinels 0 and 1 are accepted, as some hosts report boolean
// reflections as numbers.
func DecodeBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case int64:
		switch b {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
	case int:
		switch b {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
	case float64:
		if b == 0 && !math.Signbit(b) {
			return false, nil
		}
		if b == 1 {
			return true, nil
		}
	}
	return false, unrecognized("boolean", v)
}

// EncodeBool returns the canonical native value for b.
func EncodeBool(b bool) any {
	return b
}

// Tristate is an enumerated boolean attribute whose absence means "use the
// default", as with spellcheck.
type Tristate int

const (
	TristateTrue Tristate = iota
	TristateFalse
	TristateDefault
)

func (t Tristate) String() string {
	switch t {
	case TristateTrue:
		return "true"
	case TristateFalse:
		return "false"
	case TristateDefault:
		return "default"
	}
	return "Tristate(invalid)"
}

// Encode returns the attribute value for t. TristateDefault encodes as null,
// meaning the attribute is removed.
func (t Tristate) Encode() null.String {
	switch t {
	case TristateTrue:
		return null.StringFrom("true")
	case TristateFalse:
		return null.StringFrom("false")
	}
	return null.String{}
}

// DecodeTristate maps an attribute value onto its tag. A missing attribute is
// TristateDefault and the empty string is TristateTrue.
func DecodeTristate(attr null.String) (Tristate, error) {
	if !attr.Valid {
		return TristateDefault, nil
	}
	switch lowerASCII(attr.String) {
	case "", "true":
		return TristateTrue, nil
	case "false":
		return TristateFalse, nil
	}
	return TristateDefault, unrecognized("tristate", attr.String)
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
