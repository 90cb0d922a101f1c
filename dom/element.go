// Package dom binds host DOM elements to typed Go views.
//
// Every view is a thin wrapper over a native.Object: reading a property
// goes to the host each time, writing one performs the host assignment and
// returns whatever error the host raised. Nothing is cached. The only
// constructors that check what they wrap are AsElement and AsHTMLElement;
// ElementOf and HTMLElementOf trust the caller.
package dom

import (
	"strconv"

	"github.com/dop251/goja"
	"gopkg.in/guregu/null.v3"

	"github.com/chrisuehlinger/typeddom/native"
)

// Element is the generic element capability set.
type Element struct {
	obj native.Object
}

// ElementOf views o as an Element without checking it.
func ElementOf(o native.Object) Element {
	return Element{obj: o}
}

// AsElement narrows o to an Element. The result is absent when o is not an
// instance of the host's Element interface, or when the host has none.
func AsElement(o native.Object) native.Optional[Element] {
	if o.IsZero() || !o.InstanceOf("Element") {
		return native.None[Element]()
	}
	return native.Some(Element{obj: o})
}

// Native returns the wrapped host object.
func (e Element) Native() native.Object { return e.obj }

// Same reports whether e and other wrap the same host object.
func (e Element) Same(other native.Handle) bool {
	return e.obj.Same(other.Native())
}

func (e Element) TagName() string   { return e.obj.String("tagName") }
func (e Element) LocalName() string { return e.obj.String("localName") }

// NamespaceURI is null for elements created without a namespace.
func (e Element) NamespaceURI() null.String { return e.obj.NullString("namespaceURI") }

// Prefix is null unless the element was created with a qualified name.
func (e Element) Prefix() null.String { return e.obj.NullString("prefix") }

func (e Element) ID() string                  { return e.obj.String("id") }
func (e Element) SetID(id string) error       { return e.obj.Set("id", id) }
func (e Element) ClassName() string           { return e.obj.String("className") }
func (e Element) SetClassName(s string) error { return e.obj.Set("className", s) }

// ClassList is the live token list over the class attribute.
func (e Element) ClassList() native.TokenList {
	return native.TokenListOf(e.ref("classList"))
}

// Attribute returns the attribute value, or null when it is absent.
func (e Element) Attribute(name string) (null.String, error) {
	v, err := e.obj.Call("getAttribute", name)
	if err != nil {
		return null.String{}, err
	}
	if goja.IsNull(v) || goja.IsUndefined(v) {
		return null.String{}, nil
	}
	return null.StringFrom(v.String()), nil
}

func (e Element) SetAttribute(name, value string) error {
	_, err := e.obj.Call("setAttribute", name, value)
	return err
}

func (e Element) HasAttribute(name string) (bool, error) {
	v, err := e.obj.Call("hasAttribute", name)
	if err != nil {
		return false, err
	}
	return v.ToBoolean(), nil
}

func (e Element) RemoveAttribute(name string) error {
	_, err := e.obj.Call("removeAttribute", name)
	return err
}

// ToggleAttribute flips the presence of a boolean attribute and reports
// whether it is now present.
func (e Element) ToggleAttribute(name string) (bool, error) {
	v, err := e.obj.Call("toggleAttribute", name)
	if err != nil {
		return false, err
	}
	return v.ToBoolean(), nil
}

// ForceAttribute adds (on) or removes a boolean attribute.
func (e Element) ForceAttribute(name string, on bool) (bool, error) {
	v, err := e.obj.Call("toggleAttribute", name, on)
	if err != nil {
		return false, err
	}
	return v.ToBoolean(), nil
}

func (e Element) AttributeNames() ([]string, error) {
	v, err := e.obj.Call("getAttributeNames")
	if err != nil {
		return nil, err
	}
	var names []string
	if err := e.obj.Runtime().ExportTo(v, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (e Element) Children() []Element {
	return e.elements(e.obj.Get("children"))
}

func (e Element) ChildElementCount() int { return e.obj.Int("childElementCount") }

func (e Element) ParentElement() native.Optional[Element]     { return e.optional("parentElement") }
func (e Element) FirstElementChild() native.Optional[Element] { return e.optional("firstElementChild") }
func (e Element) LastElementChild() native.Optional[Element]  { return e.optional("lastElementChild") }

// AppendChild moves child to the end of e's children.
func (e Element) AppendChild(child native.Handle) error {
	_, err := e.obj.Call("appendChild", child)
	return err
}

// Remove detaches e from its parent.
func (e Element) Remove() error {
	_, err := e.obj.Call("remove")
	return err
}

func (e Element) TextContent() string            { return e.obj.String("textContent") }
func (e Element) SetTextContent(s string) error  { return e.obj.Set("textContent", s) }
func (e Element) InnerHTML() string              { return e.obj.String("innerHTML") }
func (e Element) SetInnerHTML(html string) error { return e.obj.Set("innerHTML", html) }
func (e Element) OuterHTML() string              { return e.obj.String("outerHTML") }

// IsConnected reports whether e is in a document.
func (e Element) IsConnected() bool { return e.obj.Bool("isConnected") }

// QuerySelector returns the first descendant matching selector. An invalid
// selector is reported by the host as an error.
func (e Element) QuerySelector(selector string) (native.Optional[Element], error) {
	v, err := e.obj.Call("querySelector", selector)
	if err != nil {
		return native.None[Element](), err
	}
	return e.optionalValue(v), nil
}

func (e Element) QuerySelectorAll(selector string) ([]Element, error) {
	v, err := e.obj.Call("querySelectorAll", selector)
	if err != nil {
		return nil, err
	}
	return e.elements(v), nil
}

func (e Element) Matches(selector string) (bool, error) {
	v, err := e.obj.Call("matches", selector)
	if err != nil {
		return false, err
	}
	return v.ToBoolean(), nil
}

// Closest returns the nearest inclusive ancestor matching selector.
func (e Element) Closest(selector string) (native.Optional[Element], error) {
	v, err := e.obj.Call("closest", selector)
	if err != nil {
		return native.None[Element](), err
	}
	return e.optionalValue(v), nil
}

// ref returns the object held by a property. A missing one comes back as
// a zero handle, whose reads are empty and whose calls fail.
func (e Element) ref(name string) native.Object {
	return e.obj.Ref(name).OrElse(native.Object{})
}

func (e Element) optional(name string) native.Optional[Element] {
	return native.Map(e.obj.Ref(name), ElementOf)
}

func (e Element) optionalValue(v goja.Value) native.Optional[Element] {
	o, ok := native.Wrap(e.obj.Runtime(), v)
	if !ok {
		return native.None[Element]()
	}
	return native.Some(ElementOf(o))
}

// elements converts an array-like host value into element views.
func (e Element) elements(v goja.Value) []Element {
	list, ok := native.Wrap(e.obj.Runtime(), v)
	if !ok {
		return nil
	}
	n := list.Int("length")
	out := make([]Element, 0, n)
	for i := 0; i < n; i++ {
		if o, ok := native.Wrap(list.Runtime(), list.Get(strconv.Itoa(i))); ok {
			out = append(out, ElementOf(o))
		}
	}
	return out
}
