package js

import (
	"strings"
	"sync"

	"github.com/dop251/goja"
	"golang.org/x/net/html"
)

// EventPhase represents the phase of event dispatch.
type EventPhase int

const (
	EventPhaseNone      EventPhase = 0
	EventPhaseCapturing EventPhase = 1
	EventPhaseAtTarget  EventPhase = 2
	EventPhaseBubbling  EventPhase = 3
)

// Event is the Go state behind a JS event object.
type Event struct {
	Type             string
	Target           *goja.Object
	CurrentTarget    *goja.Object
	EventPhase       EventPhase
	Bubbles          bool
	Cancelable       bool
	Composed         bool
	DefaultPrevented bool
	IsTrusted        bool
	Detail           goja.Value

	stopPropagation bool
	stopImmediate   bool
	initialized     bool
	dispatching     bool
	inPassive       bool
}

// eventListener represents a registered event listener.
type eventListener struct {
	id       int
	callback goja.Value
	options  listenerOptions
}

// listenerOptions represents addEventListener options.
type listenerOptions struct {
	capture bool
	once    bool
	passive bool
}

// EventTarget manages event listeners for a target.
type EventTarget struct {
	listeners map[string][]eventListener
	nextID    int
	mu        sync.RWMutex
}

// NewEventTarget creates a new EventTarget.
func NewEventTarget() *EventTarget {
	return &EventTarget{
		listeners: make(map[string][]eventListener),
	}
}

// AddEventListener registers an event listener. Registering the same
// callback twice for the same phase is a no-op.
func (et *EventTarget) AddEventListener(eventType string, callback goja.Value, opts listenerOptions) {
	et.mu.Lock()
	defer et.mu.Unlock()

	for _, l := range et.listeners[eventType] {
		if l.callback.SameAs(callback) && l.options.capture == opts.capture {
			return
		}
	}

	et.nextID++
	et.listeners[eventType] = append(et.listeners[eventType], eventListener{
		id:       et.nextID,
		callback: callback,
		options:  opts,
	})
}

// RemoveEventListener unregisters an event listener.
func (et *EventTarget) RemoveEventListener(eventType string, callback goja.Value, capture bool) {
	et.mu.Lock()
	defer et.mu.Unlock()

	listeners := et.listeners[eventType]
	for i, l := range listeners {
		if l.callback.SameAs(callback) && l.options.capture == capture {
			et.listeners[eventType] = append(listeners[:i], listeners[i+1:]...)
			return
		}
	}
}

// HasEventListeners returns true if there are any listeners for the event type.
func (et *EventTarget) HasEventListeners(eventType string) bool {
	et.mu.RLock()
	defer et.mu.RUnlock()
	return len(et.listeners[eventType]) > 0
}

func (et *EventTarget) remove(eventType string, id int) {
	et.mu.Lock()
	defer et.mu.Unlock()

	listeners := et.listeners[eventType]
	for i, l := range listeners {
		if l.id == id {
			et.listeners[eventType] = append(listeners[:i], listeners[i+1:]...)
			return
		}
	}
}

// invoke runs the listeners registered for the event's type that apply to
// phase. Listener exceptions are reported and do not stop dispatch.
func (b *DOMBinder) invoke(et *EventTarget, evObj *goja.Object, ev *Event, phase EventPhase) {
	et.mu.RLock()
	listeners := make([]eventListener, len(et.listeners[ev.Type]))
	copy(listeners, et.listeners[ev.Type])
	et.mu.RUnlock()

	for _, l := range listeners {
		if phase == EventPhaseCapturing && !l.options.capture {
			continue
		}
		if phase == EventPhaseBubbling && l.options.capture {
			continue
		}
		if l.options.once {
			et.remove(ev.Type, l.id)
		}

		ev.inPassive = l.options.passive
		if err := b.callListener(l.callback, ev.CurrentTarget, evObj); err != nil {
			b.runtime.log.WithError(err).WithField("event", ev.Type).Warn("event listener threw")
			b.runtime.recordError(err)
		}
		ev.inPassive = false

		if ev.stopImmediate {
			break
		}
	}
}

// callListener calls a function listener or the handleEvent method of an
// object listener.
func (b *DOMBinder) callListener(callback goja.Value, this *goja.Object, evObj *goja.Object) error {
	if fn, ok := goja.AssertFunction(callback); ok {
		_, err := fn(this, evObj)
		return err
	}
	obj, ok := callback.(*goja.Object)
	if !ok {
		return nil
	}
	if fn, ok := goja.AssertFunction(obj.Get("handleEvent")); ok {
		_, err := fn(obj, evObj)
		return err
	}
	return nil
}

// dispatch runs the capture, target and bubble phases along the parent
// chain of n and reports whether the default action may proceed.
func (b *DOMBinder) dispatch(n *html.Node, evObj *goja.Object, ev *Event) bool {
	if ev.dispatching || !ev.initialized {
		b.throw(errInvalidState("The event is already being dispatched or was not initialized."))
	}
	ev.dispatching = true
	ev.stopPropagation = false
	ev.stopImmediate = false
	ev.Target = b.BindNode(n)

	var path []*html.Node
	for p := n; p != nil; p = p.Parent {
		path = append(path, p)
	}

	for i := len(path) - 1; i > 0 && !ev.stopPropagation; i-- {
		ev.EventPhase = EventPhaseCapturing
		ev.CurrentTarget = b.BindNode(path[i])
		b.invoke(b.stateOf(path[i]).target, evObj, ev, EventPhaseCapturing)
	}

	if !ev.stopPropagation {
		ev.EventPhase = EventPhaseAtTarget
		ev.CurrentTarget = ev.Target
		b.invoke(b.stateOf(n).target, evObj, ev, EventPhaseAtTarget)
	}

	if ev.Bubbles {
		for i := 1; i < len(path) && !ev.stopPropagation; i++ {
			ev.EventPhase = EventPhaseBubbling
			ev.CurrentTarget = b.BindNode(path[i])
			b.invoke(b.stateOf(path[i]).target, evObj, ev, EventPhaseBubbling)
		}
	}

	ev.EventPhase = EventPhaseNone
	ev.CurrentTarget = nil
	ev.dispatching = false
	return !ev.DefaultPrevented
}

// fire creates and dispatches an event from host code.
func (b *DOMBinder) fire(n *html.Node, proto *goja.Object, typ string, bubbles, cancelable bool) bool {
	ev := &Event{Type: typ, Bubbles: bubbles, Cancelable: cancelable, initialized: true}
	obj := b.runtime.vm.NewObject()
	obj.SetPrototype(proto)
	b.initEventObject(obj, ev)
	return b.dispatch(n, obj, ev)
}

// bindEventTarget adds the EventTarget methods to a node object.
func (b *DOMBinder) bindEventTarget(obj *goja.Object, n *html.Node) {
	vm := b.runtime.vm

	obj.Set("addEventListener", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("addEventListener requires 2 arguments"))
		}
		callback := call.Arguments[1]
		if goja.IsNull(callback) || goja.IsUndefined(callback) {
			return goja.Undefined()
		}
		opts := parseListenerOptions(vm, call.Argument(2))
		b.stateOf(n).target.AddEventListener(call.Arguments[0].String(), callback, opts)
		return goja.Undefined()
	})

	obj.Set("removeEventListener", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("removeEventListener requires 2 arguments"))
		}
		opts := parseListenerOptions(vm, call.Argument(2))
		b.stateOf(n).target.RemoveEventListener(call.Arguments[0].String(), call.Arguments[1], opts.capture)
		return goja.Undefined()
	})

	obj.Set("dispatchEvent", func(call goja.FunctionCall) goja.Value {
		evObj, ok := call.Argument(0).(*goja.Object)
		ev := b.eventOf(evObj)
		if !ok || ev == nil {
			panic(vm.NewTypeError("parameter 1 is not of type 'Event'"))
		}
		return vm.ToValue(b.dispatch(n, evObj, ev))
	})
}

func parseListenerOptions(vm *goja.Runtime, arg goja.Value) listenerOptions {
	var opts listenerOptions
	if goja.IsUndefined(arg) || goja.IsNull(arg) {
		return opts
	}
	obj, ok := arg.(*goja.Object)
	if !ok {
		opts.capture = arg.ToBoolean()
		return opts
	}
	if v := obj.Get("capture"); v != nil {
		opts.capture = v.ToBoolean()
	}
	if v := obj.Get("once"); v != nil {
		opts.once = v.ToBoolean()
	}
	if v := obj.Get("passive"); v != nil {
		opts.passive = v.ToBoolean()
	}
	return opts
}

func (b *DOMBinder) eventOf(obj *goja.Object) *Event {
	if obj == nil {
		return nil
	}
	v := obj.Get("_goEvent")
	if v == nil {
		return nil
	}
	ev, _ := v.Export().(*Event)
	return ev
}

// initEventObject exposes ev through obj.
func (b *DOMBinder) initEventObject(obj *goja.Object, ev *Event) {
	vm := b.runtime.vm
	b.hide(obj, "_goEvent", ev)

	optional := func(o *goja.Object) any {
		if o == nil {
			return goja.Null()
		}
		return o
	}

	b.accessor(obj, "type", func() any { return ev.Type }, nil)
	b.accessor(obj, "target", func() any { return optional(ev.Target) }, nil)
	b.accessor(obj, "srcElement", func() any { return optional(ev.Target) }, nil)
	b.accessor(obj, "currentTarget", func() any { return optional(ev.CurrentTarget) }, nil)
	b.accessor(obj, "eventPhase", func() any { return int(ev.EventPhase) }, nil)
	b.accessor(obj, "bubbles", func() any { return ev.Bubbles }, nil)
	b.accessor(obj, "cancelable", func() any { return ev.Cancelable }, nil)
	b.accessor(obj, "composed", func() any { return ev.Composed }, nil)
	b.accessor(obj, "defaultPrevented", func() any { return ev.DefaultPrevented }, nil)
	b.accessor(obj, "isTrusted", func() any { return ev.IsTrusted }, nil)
	b.accessor(obj, "cancelBubble", func() any { return ev.stopPropagation }, func(v goja.Value) {
		if v.ToBoolean() {
			ev.stopPropagation = true
		}
	})
	b.accessor(obj, "returnValue", func() any { return !ev.DefaultPrevented }, func(v goja.Value) {
		if !v.ToBoolean() && ev.Cancelable && !ev.inPassive {
			ev.DefaultPrevented = true
		}
	})

	obj.Set("preventDefault", func(call goja.FunctionCall) goja.Value {
		if ev.Cancelable && !ev.inPassive {
			ev.DefaultPrevented = true
		}
		return goja.Undefined()
	})

	obj.Set("stopPropagation", func(call goja.FunctionCall) goja.Value {
		ev.stopPropagation = true
		return goja.Undefined()
	})

	obj.Set("stopImmediatePropagation", func(call goja.FunctionCall) goja.Value {
		ev.stopPropagation = true
		ev.stopImmediate = true
		return goja.Undefined()
	})

	obj.Set("initEvent", func(call goja.FunctionCall) goja.Value {
		if ev.dispatching {
			return goja.Undefined()
		}
		ev.Type = call.Argument(0).String()
		ev.Bubbles = call.Argument(1).ToBoolean()
		ev.Cancelable = call.Argument(2).ToBoolean()
		ev.DefaultPrevented = false
		ev.stopPropagation = false
		ev.stopImmediate = false
		ev.Target = nil
		ev.initialized = true
		return goja.Undefined()
	})

	obj.Set("composedPath", func(call goja.FunctionCall) goja.Value {
		if !ev.dispatching || ev.Target == nil {
			return vm.NewArray()
		}
		var path []any
		for n := b.nodeOf(ev.Target); n != nil; n = n.Parent {
			path = append(path, b.BindNode(n))
		}
		return vm.NewArray(path...)
	})

	if ev.Detail != nil {
		b.accessor(obj, "detail", func() any { return ev.Detail }, nil)
	}
}

func (b *DOMBinder) setupEventConstructors() {
	vm := b.runtime.vm

	construct := func(call goja.ConstructorCall, custom bool) *goja.Object {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("1 argument required, but only 0 present."))
		}
		ev := &Event{Type: call.Arguments[0].String(), initialized: true}
		if custom {
			ev.Detail = goja.Null()
		}
		if init, ok := call.Argument(1).(*goja.Object); ok {
			if v := init.Get("bubbles"); v != nil {
				ev.Bubbles = v.ToBoolean()
			}
			if v := init.Get("cancelable"); v != nil {
				ev.Cancelable = v.ToBoolean()
			}
			if v := init.Get("composed"); v != nil {
				ev.Composed = v.ToBoolean()
			}
			if v := init.Get("detail"); custom && v != nil && !goja.IsUndefined(v) {
				ev.Detail = v
			}
		}
		b.initEventObject(call.This, ev)
		return nil
	}

	b.eventProto = b.defineInterface("Event", nil, func(call goja.ConstructorCall) *goja.Object {
		return construct(call, false)
	})
	ctor := b.eventProto.Get("constructor").ToObject(vm)
	for name, phase := range map[string]EventPhase{
		"NONE":            EventPhaseNone,
		"CAPTURING_PHASE": EventPhaseCapturing,
		"AT_TARGET":       EventPhaseAtTarget,
		"BUBBLING_PHASE":  EventPhaseBubbling,
	} {
		ctor.Set(name, int(phase))
		b.eventProto.Set(name, int(phase))
	}

	b.customEventProto = b.defineInterface("CustomEvent", b.eventProto, func(call goja.ConstructorCall) *goja.Object {
		return construct(call, true)
	})
	b.uiEventProto = b.defineInterface("UIEvent", b.eventProto, func(call goja.ConstructorCall) *goja.Object {
		return construct(call, false)
	})
	b.mouseEventProto = b.defineInterface("MouseEvent", b.uiEventProto, func(call goja.ConstructorCall) *goja.Object {
		return construct(call, false)
	})
	b.focusEventProto = b.defineInterface("FocusEvent", b.uiEventProto, func(call goja.ConstructorCall) *goja.Object {
		return construct(call, false)
	})
}

// createEvent implements document.createEvent: the event starts
// uninitialized and must go through initEvent before dispatch.
func (b *DOMBinder) createEvent(iface string) *goja.Object {
	var proto *goja.Object
	ev := &Event{}
	switch strings.ToLower(iface) {
	case "event", "events", "htmlevents":
		proto = b.eventProto
	case "customevent":
		proto = b.customEventProto
		ev.Detail = goja.Null()
	case "uievent", "uievents":
		proto = b.uiEventProto
	case "mouseevent", "mouseevents":
		proto = b.mouseEventProto
	case "focusevent":
		proto = b.focusEventProto
	default:
		b.throw(errNotSupported("The provided event type ('" + iface + "') is invalid."))
	}

	obj := b.runtime.vm.NewObject()
	obj.SetPrototype(proto)
	b.initEventObject(obj, ev)
	if ev.Detail != nil {
		obj.Set("initCustomEvent", func(call goja.FunctionCall) goja.Value {
			if ev.dispatching {
				return goja.Undefined()
			}
			ev.Type = call.Argument(0).String()
			ev.Bubbles = call.Argument(1).ToBoolean()
			ev.Cancelable = call.Argument(2).ToBoolean()
			ev.Detail = call.Argument(3)
			ev.initialized = true
			return goja.Undefined()
		})
	}
	return obj
}
