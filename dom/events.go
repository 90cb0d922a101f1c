package dom

import (
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/typeddom/native"
)

// ListenerOptions mirrors the options dictionary of addEventListener.
type ListenerOptions struct {
	Capture bool
	Once    bool
	Passive bool
}

// Listener identifies a registered callback for RemoveEventListener.
type Listener struct {
	fn      goja.Value
	capture bool
}

func addEventListener(target native.Object, typ string, fn func(native.Event), opts ListenerOptions) (Listener, error) {
	rt := target.Runtime()
	jsFn := rt.ToValue(func(call goja.FunctionCall) goja.Value {
		if o, ok := native.Wrap(rt, call.Argument(0)); ok {
			fn(native.EventOf(o))
		}
		return goja.Undefined()
	})
	_, err := target.Call("addEventListener", typ, jsFn, map[string]any{
		"capture": opts.Capture,
		"once":    opts.Once,
		"passive": opts.Passive,
	})
	if err != nil {
		return Listener{}, err
	}
	return Listener{fn: jsFn, capture: opts.Capture}, nil
}

func removeEventListener(target native.Object, typ string, l Listener) error {
	if l.fn == nil {
		return nil
	}
	_, err := target.Call("removeEventListener", typ, l.fn, l.capture)
	return err
}

// dispatchEvent reports whether the event's default action may proceed.
func dispatchEvent(target native.Object, ev native.Event) (bool, error) {
	v, err := target.Call("dispatchEvent", ev)
	if err != nil {
		return false, err
	}
	return v.ToBoolean(), nil
}

// AddEventListener registers fn for events of type typ.
func (e Element) AddEventListener(typ string, fn func(native.Event), opts ListenerOptions) (Listener, error) {
	return addEventListener(e.obj, typ, fn, opts)
}

func (e Element) RemoveEventListener(typ string, l Listener) error {
	return removeEventListener(e.obj, typ, l)
}

// DispatchEvent dispatches ev at e and reports whether no listener
// cancelled it.
func (e Element) DispatchEvent(ev native.Event) (bool, error) {
	return dispatchEvent(e.obj, ev)
}
