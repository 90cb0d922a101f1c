package enum

// Editable is the contentEditable state of an element.
//
// EditableInherit is kept apart from EditableFalse: an inheriting element is
// editable whenever its nearest explicit ancestor is.
type Editable int

const (
	EditableTrue Editable = iota
	EditableFalse
	EditableInherit
	EditablePlaintextOnly
)

// Encode returns the canonical contentEditable string.
func (e Editable) Encode() string {
	switch e {
	case EditableTrue:
		return "true"
	case EditableFalse:
		return "false"
	case EditablePlaintextOnly:
		return "plaintext-only"
	}
	return "inherit"
}

func (e Editable) String() string {
	if e < EditableTrue || e > EditablePlaintextOnly {
		return "Editable(invalid)"
	}
	return e.Encode()
}

// DecodeEditable maps a contentEditable value onto its tag.
func DecodeEditable(s string) (Editable, error) {
	switch lowerASCII(s) {
	case "true":
		return EditableTrue, nil
	case "false":
		return EditableFalse, nil
	case "inherit":
		return EditableInherit, nil
	case "plaintext-only":
		return EditablePlaintextOnly, nil
	}
	return EditableInherit, unrecognized("contentEditable", s)
}
