package native

// TokenList is a typed view over a DOMTokenList such as classList or
// itemProp.
type TokenList struct {
	obj Object
}

// TokenListOf returns a view over o without checking it.
func TokenListOf(o Object) TokenList { return TokenList{obj: o} }

func (t TokenList) Native() Object { return t.obj }

// Value is the serialized token set.
func (t TokenList) Value() string { return t.obj.String("value") }

func (t TokenList) Length() int { return t.obj.Int("length") }

// Items returns the tokens in order.
func (t TokenList) Items() ([]string, error) {
	n := t.Length()
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		v, err := t.obj.Call("item", i)
		if err != nil {
			return nil, err
		}
		items = append(items, v.String())
	}
	return items, nil
}

func (t TokenList) Contains(token string) (bool, error) {
	v, err := t.obj.Call("contains", token)
	if err != nil {
		return false, err
	}
	return v.ToBoolean(), nil
}

func (t TokenList) Add(tokens ...string) error {
	_, err := t.obj.Call("add", stringArgs(tokens)...)
	return err
}

func (t TokenList) Remove(tokens ...string) error {
	_, err := t.obj.Call("remove", stringArgs(tokens)...)
	return err
}

// Toggle flips token and reports whether it is now present.
func (t TokenList) Toggle(token string) (bool, error) {
	v, err := t.obj.Call("toggle", token)
	if err != nil {
		return false, err
	}
	return v.ToBoolean(), nil
}

func stringArgs(ss []string) []any {
	args := make([]any, len(ss))
	for i, s := range ss {
		args[i] = s
	}
	return args
}
