package dom

import (
	"fmt"

	"github.com/dop251/goja"
	"gopkg.in/guregu/null.v3"

	"github.com/chrisuehlinger/typeddom/native"
)

// Document is a typed view over the host document.
type Document struct {
	obj native.Object
}

// DocumentOf views o as a Document without checking it.
func DocumentOf(o native.Object) Document {
	return Document{obj: o}
}

// GlobalDocument returns the runtime's global document, absent when the
// host defines none.
func GlobalDocument(rt *goja.Runtime) native.Optional[Document] {
	o, ok := native.Wrap(rt, rt.Get("document"))
	if !ok {
		return native.None[Document]()
	}
	return native.Some(Document{obj: o})
}

func (d Document) Native() native.Object { return d.obj }

func (d Document) URL() string   { return d.obj.String("URL") }
func (d Document) Title() string { return d.obj.String("title") }

// CreateElement creates a detached HTML element.
func (d Document) CreateElement(tagName string) (Element, error) {
	return d.element(d.obj.Call("createElement", tagName))
}

// CreateElementNS creates a detached element in a namespace; a null
// namespace creates an element in no namespace.
func (d Document) CreateElementNS(namespaceURI null.String, qualifiedName string) (Element, error) {
	var ns any = goja.Null()
	if namespaceURI.Valid {
		ns = namespaceURI.String
	}
	return d.element(d.obj.Call("createElementNS", ns, qualifiedName))
}

// CreateEvent creates an uninitialized event of a legacy interface name
// such as "Event" or "MouseEvents". Call InitEvent before dispatching it.
func (d Document) CreateEvent(iface string) (native.Event, error) {
	v, err := d.obj.Call("createEvent", iface)
	if err != nil {
		return native.Event{}, err
	}
	o, ok := native.Wrap(d.obj.Runtime(), v)
	if !ok {
		return native.Event{}, fmt.Errorf("createEvent(%q): %w", iface, native.ErrNoObject)
	}
	return native.EventOf(o), nil
}

func (d Document) GetElementByID(id string) (native.Optional[Element], error) {
	v, err := d.obj.Call("getElementById", id)
	if err != nil {
		return native.None[Element](), err
	}
	return Element{obj: d.obj}.optionalValue(v), nil
}

func (d Document) QuerySelector(selector string) (native.Optional[Element], error) {
	v, err := d.obj.Call("querySelector", selector)
	if err != nil {
		return native.None[Element](), err
	}
	return Element{obj: d.obj}.optionalValue(v), nil
}

func (d Document) QuerySelectorAll(selector string) ([]Element, error) {
	v, err := d.obj.Call("querySelectorAll", selector)
	if err != nil {
		return nil, err
	}
	return Element{obj: d.obj}.elements(v), nil
}

func (d Document) DocumentElement() native.Optional[Element] { return d.optional("documentElement") }
func (d Document) Head() native.Optional[Element]            { return d.optional("head") }
func (d Document) Body() native.Optional[Element]            { return d.optional("body") }

// ActiveElement is the focused element, or the body when nothing has focus.
func (d Document) ActiveElement() native.Optional[Element] { return d.optional("activeElement") }

func (d Document) AddEventListener(typ string, fn func(native.Event), opts ListenerOptions) (Listener, error) {
	return addEventListener(d.obj, typ, fn, opts)
}

func (d Document) RemoveEventListener(typ string, l Listener) error {
	return removeEventListener(d.obj, typ, l)
}

func (d Document) DispatchEvent(ev native.Event) (bool, error) {
	return dispatchEvent(d.obj, ev)
}

func (d Document) optional(name string) native.Optional[Element] {
	return native.Map(d.obj.Ref(name), ElementOf)
}

func (d Document) element(v goja.Value, err error) (Element, error) {
	if err != nil {
		return Element{}, err
	}
	o, ok := native.Wrap(d.obj.Runtime(), v)
	if !ok {
		return Element{}, fmt.Errorf("%w: host returned %s", native.ErrNoObject, v)
	}
	return ElementOf(o), nil
}
