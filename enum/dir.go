package enum

// Dir is the directionality of an element's text.
type Dir int

const (
	DirLTR Dir = iota
	DirRTL
	// DirInherit means no explicit direction; the element follows its parent.
	DirInherit
	DirAuto
)

var dirNames = [...]string{
	DirLTR:     "ltr",
	DirRTL:     "rtl",
	DirInherit: "",
	DirAuto:    "auto",
}

// Encode returns the canonical value of the dir property.
func (d Dir) Encode() string {
	if d < 0 || int(d) >= len(dirNames) {
		return ""
	}
	return dirNames[d]
}

func (d Dir) String() string {
	switch d {
	case DirLTR:
		return "ltr"
	case DirRTL:
		return "rtl"
	case DirInherit:
		return "inherit"
	case DirAuto:
		return "auto"
	}
	return "Dir(invalid)"
}

// DecodeDir maps a dir property value onto its tag. Matching is ASCII
// case-insensitive and the empty string is DirInherit.
func DecodeDir(s string) (Dir, error) {
	switch lowerASCII(s) {
	case "ltr":
		return DirLTR, nil
	case "rtl":
		return DirRTL, nil
	case "":
		return DirInherit, nil
	case "auto":
		return DirAuto, nil
	}
	return DirInherit, unrecognized("dir", s)
}
