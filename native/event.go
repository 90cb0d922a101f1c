package native

import (
	"fmt"

	"github.com/dop251/goja"
)

// Event is a typed view over a host Event object.
type Event struct {
	obj Object
}

// EventInit mirrors the dictionary accepted by the Event constructors.
// A non-nil Detail selects the CustomEvent constructor.
type EventInit struct {
	Bubbles    bool
	Cancelable bool
	Composed   bool
	Detail     any
}

// EventOf returns a view over o without checking it.
func EventOf(o Object) Event { return Event{obj: o} }

// AsEvent narrows o to an Event when it is an instance of the host's Event.
func AsEvent(o Object) Optional[Event] {
	if !o.InstanceOf("Event") {
		return None[Event]()
	}
	return Some(Event{obj: o})
}

// NewEvent constructs an event through the host's global constructor.
func NewEvent(rt *goja.Runtime, typ string, init EventInit) (Event, error) {
	ctorName := "Event"
	dict := map[string]any{
		"bubbles":    init.Bubbles,
		"cancelable": init.Cancelable,
		"composed":   init.Composed,
	}
	if init.Detail != nil {
		ctorName = "CustomEvent"
		dict["detail"] = init.Detail
	}
	ctor := rt.Get(ctorName)
	if isNullish(ctor) {
		return Event{}, fmt.Errorf("%w: %s", ErrNotCallable, ctorName)
	}
	obj, err := rt.New(ctor, rt.ToValue(typ), rt.ToValue(dict))
	if err != nil {
		return Event{}, err
	}
	return Event{obj: FromObject(rt, obj)}, nil
}

func (e Event) Native() Object { return e.obj }

func (e Event) Type() string           { return e.obj.String("type") }
func (e Event) Bubbles() bool          { return e.obj.Bool("bubbles") }
func (e Event) Cancelable() bool       { return e.obj.Bool("cancelable") }
func (e Event) DefaultPrevented() bool { return e.obj.Bool("defaultPrevented") }
func (e Event) IsTrusted() bool        { return e.obj.Bool("isTrusted") }
func (e Event) EventPhase() int        { return e.obj.Int("eventPhase") }

// Target is the object the event was dispatched to, absent before dispatch.
func (e Event) Target() Optional[Object] { return e.obj.Ref("target") }

// CurrentTarget is absent outside of listener invocation.
func (e Event) CurrentTarget() Optional[Object] { return e.obj.Ref("currentTarget") }

// Detail returns the CustomEvent payload. Its type is whatever the
// dispatcher stored, so it is exposed untyped.
func (e Event) Detail() Optional[goja.Value] {
	v := e.obj.Get("detail")
	if isNullish(v) {
		return None[goja.Value]()
	}
	return Some(v)
}

func (e Event) PreventDefault() error {
	_, err := e.obj.Call("preventDefault")
	return err
}

func (e Event) StopPropagation() error {
	_, err := e.obj.Call("stopPropagation")
	return err
}

func (e Event) StopImmediatePropagation() error {
	_, err := e.obj.Call("stopImmediatePropagation")
	return err
}

// InitEvent is the legacy initializer used with document.createEvent.
func (e Event) InitEvent(typ string, bubbles, cancelable bool) error {
	_, err := e.obj.Call("initEvent", typ, bubbles, cancelable)
	return err
}
