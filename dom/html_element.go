package dom

import (
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/typeddom/enum"
	"github.com/chrisuehlinger/typeddom/native"
)

// HTMLElement adds the capabilities every HTML element has to Element.
type HTMLElement struct {
	Element
}

// HTMLElementOf views o as an HTMLElement without checking it.
func HTMLElementOf(o native.Object) HTMLElement {
	return HTMLElement{Element{obj: o}}
}

// AsHTMLElement narrows e to an HTMLElement. Elements from other
// namespaces, such as SVG, stay absent.
func AsHTMLElement(e Element) native.Optional[HTMLElement] {
	if e.obj.IsZero() || !e.obj.InstanceOf("HTMLElement") {
		return native.None[HTMLElement]()
	}
	return native.Some(HTMLElement{e})
}

func (h HTMLElement) AccessKey() string           { return h.obj.String("accessKey") }
func (h HTMLElement) SetAccessKey(k string) error { return h.obj.Set("accessKey", k) }

// AccessKeyLabel is the host's rendering of the access key, including
// modifiers. Empty when no key is assigned.
func (h HTMLElement) AccessKeyLabel() string { return h.obj.String("accessKeyLabel") }

// ContentEditable returns the element's own editing state; EditableInherit
// means it follows its parent.
func (h HTMLElement) ContentEditable() (enum.Editable, error) {
	return enum.DecodeEditable(h.obj.String("contentEditable"))
}

func (h HTMLElement) SetContentEditable(v enum.Editable) error {
	return h.obj.Set("contentEditable", v.Encode())
}

// IsContentEditable is the effective editing state after inheritance.
func (h HTMLElement) IsContentEditable() bool { return h.obj.Bool("isContentEditable") }

func (h HTMLElement) ContextMenu() native.Optional[Element] { return h.optional("contextMenu") }

// SetContextMenu assigns the menu; None clears it.
func (h HTMLElement) SetContextMenu(menu native.Optional[Element]) error {
	if m, ok := menu.Get(); ok {
		return h.obj.Set("contextMenu", m)
	}
	return h.obj.Set("contextMenu", goja.Null())
}

// Dataset is the live view of the data-* attributes.
func (h HTMLElement) Dataset() native.Dataset {
	return native.DatasetOf(h.ref("dataset"))
}

func (h HTMLElement) Dir() (enum.Dir, error)  { return enum.DecodeDir(h.obj.String("dir")) }
func (h HTMLElement) SetDir(d enum.Dir) error { return h.obj.Set("dir", d.Encode()) }

func (h HTMLElement) Draggable() (bool, error)  { return h.flag("draggable") }
func (h HTMLElement) SetDraggable(b bool) error { return h.obj.Set("draggable", enum.EncodeBool(b)) }

func (h HTMLElement) Dropzone() string           { return h.obj.String("dropzone") }
func (h HTMLElement) SetDropzone(s string) error { return h.obj.Set("dropzone", s) }

func (h HTMLElement) Hidden() (bool, error)  { return h.flag("hidden") }
func (h HTMLElement) SetHidden(b bool) error { return h.obj.Set("hidden", enum.EncodeBool(b)) }

// Microdata

func (h HTMLElement) ItemScope() (bool, error)  { return h.flag("itemScope") }
func (h HTMLElement) SetItemScope(b bool) error { return h.obj.Set("itemScope", enum.EncodeBool(b)) }
func (h HTMLElement) ItemID() string            { return h.obj.String("itemId") }
func (h HTMLElement) SetItemID(id string) error { return h.obj.Set("itemId", id) }

func (h HTMLElement) ItemType() native.TokenList { return native.TokenListOf(h.ref("itemType")) }
func (h HTMLElement) ItemRef() native.TokenList  { return native.TokenListOf(h.ref("itemRef")) }
func (h HTMLElement) ItemProp() native.TokenList { return native.TokenListOf(h.ref("itemProp")) }

// ItemValue is the element's microdata value. Its type depends on the
// element: a string for most elements, the element itself for an item
// scope, and absent when the element has no itemprop. It is returned
// untyped and callers must inspect it.
func (h HTMLElement) ItemValue() native.Optional[goja.Value] {
	v := h.obj.Get("itemValue")
	if goja.IsNull(v) || goja.IsUndefined(v) {
		return native.None[goja.Value]()
	}
	return native.Some(v)
}

// SetItemValue fails when the element has no itemprop or is an item scope.
func (h HTMLElement) SetItemValue(v any) error { return h.obj.Set("itemValue", v) }

func (h HTMLElement) Lang() string              { return h.obj.String("lang") }
func (h HTMLElement) SetLang(lang string) error { return h.obj.Set("lang", lang) }

// Layout. Offsets are zero for elements that are not rendered.

func (h HTMLElement) OffsetHeight() int { return h.obj.Int("offsetHeight") }
func (h HTMLElement) OffsetLeft() int   { return h.obj.Int("offsetLeft") }
func (h HTMLElement) OffsetTop() int    { return h.obj.Int("offsetTop") }
func (h HTMLElement) OffsetWidth() int  { return h.obj.Int("offsetWidth") }

func (h HTMLElement) OffsetParent() native.Optional[Element] { return h.optional("offsetParent") }

// Spellcheck is the effective spell-checking flag.
func (h HTMLElement) Spellcheck() (bool, error)  { return h.flag("spellcheck") }
func (h HTMLElement) SetSpellcheck(b bool) error { return h.obj.Set("spellcheck", enum.EncodeBool(b)) }

// SpellcheckState is the element's own spellcheck attribute.
// TristateDefault means the attribute is absent.
func (h HTMLElement) SpellcheckState() (enum.Tristate, error) {
	attr, err := h.Attribute("spellcheck")
	if err != nil {
		return enum.TristateDefault, err
	}
	return enum.DecodeTristate(attr)
}

func (h HTMLElement) SetSpellcheckState(t enum.Tristate) error {
	v := t.Encode()
	if !v.Valid {
		return h.RemoveAttribute("spellcheck")
	}
	return h.SetAttribute("spellcheck", v.String)
}

// Style is the live inline style declaration.
func (h HTMLElement) Style() native.Style {
	return native.StyleOf(h.ref("style"))
}

func (h HTMLElement) TabIndex() int           { return h.obj.Int("tabIndex") }
func (h HTMLElement) SetTabIndex(i int) error { return h.obj.Set("tabIndex", i) }

func (h HTMLElement) Title() string           { return h.obj.String("title") }
func (h HTMLElement) SetTitle(t string) error { return h.obj.Set("title", t) }

func (h HTMLElement) Translate() (bool, error)  { return h.flag("translate") }
func (h HTMLElement) SetTranslate(b bool) error { return h.obj.Set("translate", enum.EncodeBool(b)) }

// Actions

func (h HTMLElement) Blur() error            { return h.call("blur") }
func (h HTMLElement) Click() error           { return h.call("click") }
func (h HTMLElement) Focus() error           { return h.call("focus") }
func (h HTMLElement) ForceSpellCheck() error { return h.call("forceSpellCheck") }

func (h HTMLElement) call(name string) error {
	_, err := h.obj.Call(name)
	return err
}

// flag decodes a boolean property, accepting the 0/1 integers some hosts
// report instead of booleans.
func (h HTMLElement) flag(name string) (bool, error) {
	return enum.DecodeBool(h.obj.Export(name))
}
