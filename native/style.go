package native

// Style is a typed view over a live CSSStyleDeclaration. Writes go straight
// to the host, which keeps the element's style attribute in sync.
type Style struct {
	obj Object
}

// StyleOf returns a view over o without checking it.
func StyleOf(o Object) Style { return Style{obj: o} }

func (s Style) Native() Object { return s.obj }

func (s Style) CSSText() string { return s.obj.String("cssText") }

func (s Style) SetCSSText(text string) error {
	return s.obj.Set("cssText", text)
}

func (s Style) Length() int { return s.obj.Int("length") }

// Item returns the property name at index i.
func (s Style) Item(i int) (string, error) {
	v, err := s.obj.Call("item", i)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func (s Style) PropertyValue(name string) (string, error) {
	v, err := s.obj.Call("getPropertyValue", name)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func (s Style) PropertyPriority(name string) (string, error) {
	v, err := s.obj.Call("getPropertyPriority", name)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// SetProperty sets name to value; priority is "" or "important".
func (s Style) SetProperty(name, value, priority string) error {
	_, err := s.obj.Call("setProperty", name, value, priority)
	return err
}

// RemoveProperty removes name and returns its previous value.
func (s Style) RemoveProperty(name string) (string, error) {
	v, err := s.obj.Call("removeProperty", name)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}
