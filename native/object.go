// Package native holds the opaque handle used by the typed DOM bindings to
// reach host objects living in a goja runtime, plus the small typed views
// (events, style declarations, datasets, token lists) that are shared by
// several element bindings.
//
// A handle is borrowed: it never owns the object it points at and carries no
// state of its own. Host failures (exceptions thrown by accessors or
// methods) are returned unchanged.
package native

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
	"gopkg.in/guregu/null.v3"
)

// ErrNotCallable is returned by Object.Call when the named property is not a
// function.
var ErrNotCallable = errors.New("native: property is not callable")

// ErrNoObject is returned when a handle points at nothing.
var ErrNoObject = errors.New("native: handle points at no object")

// Handle is implemented by every typed view built on an Object.
type Handle interface {
	Native() Object
}

// Object is a non-owning reference to a host object.
type Object struct {
	rt  *goja.Runtime
	obj *goja.Object
}

// Wrap returns a handle for v. It reports false for undefined, null and
// primitive values.
func Wrap(rt *goja.Runtime, v goja.Value) (Object, bool) {
	if rt == nil || isNullish(v) {
		return Object{}, false
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return Object{}, false
	}
	return Object{rt: rt, obj: obj}, true
}

// FromObject returns a handle for obj without any check.
func FromObject(rt *goja.Runtime, obj *goja.Object) Object {
	return Object{rt: rt, obj: obj}
}

// Runtime returns the runtime that owns the object.
func (o Object) Runtime() *goja.Runtime { return o.rt }

// JS returns the underlying goja object.
func (o Object) JS() *goja.Object { return o.obj }

// IsZero reports whether the handle points at nothing.
func (o Object) IsZero() bool { return o.obj == nil }

// Native returns o, so that Object itself is a Handle.
func (o Object) Native() Object { return o }

// Same reports whether both handles point at the same host object.
func (o Object) Same(other Object) bool {
	if o.obj == nil || other.obj == nil {
		return o.obj == other.obj
	}
	return o.obj.SameAs(other.obj)
}

// Has reports whether the property is present on the object or its
// prototype chain.
func (o Object) Has(name string) bool {
	return o.obj != nil && o.obj.Get(name) != nil
}

// HasOwn reports whether the property is an own property of the object.
func (o Object) HasOwn(name string) bool {
	if o.obj == nil {
		return false
	}
	for _, k := range o.obj.GetOwnPropertyNames() {
		if k == name {
			return true
		}
	}
	return false
}

// Get reads a property. A missing property, or any property of a zero
// handle, reads as undefined.
func (o Object) Get(name string) goja.Value {
	if o.obj == nil {
		return goja.Undefined()
	}
	v := o.obj.Get(name)
	if v == nil {
		return goja.Undefined()
	}
	return v
}

// Set writes a property. Handles passed as v are unwrapped first.
func (o Object) Set(name string, v any) error {
	if o.obj == nil {
		return ErrNoObject
	}
	return o.obj.Set(name, o.toJS(v))
}

// Delete removes an own property.
func (o Object) Delete(name string) error {
	if o.obj == nil {
		return ErrNoObject
	}
	return o.obj.Delete(name)
}

// Keys lists the own enumerable property names.
func (o Object) Keys() []string {
	if o.obj == nil {
		return nil
	}
	return o.obj.Keys()
}

// Call invokes the named method with o as receiver.
func (o Object) Call(name string, args ...any) (goja.Value, error) {
	if o.obj == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoObject, name)
	}
	fn, ok := goja.AssertFunction(o.Get(name))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotCallable, name)
	}
	vals := make([]goja.Value, len(args))
	for i, a := range args {
		vals[i] = o.rt.ToValue(o.toJS(a))
	}
	return fn(o.obj, vals...)
}

// String reads a string property. Null and undefined read as "".
func (o Object) String(name string) string {
	v := o.Get(name)
	if isNullish(v) {
		return ""
	}
	return v.String()
}

// NullString reads a nullable string property.
func (o Object) NullString(name string) null.String {
	v := o.Get(name)
	if isNullish(v) {
		return null.String{}
	}
	return null.StringFrom(v.String())
}

// Int reads an integer property.
func (o Object) Int(name string) int {
	return int(o.Get(name).ToInteger())
}

// Bool reads a property with ToBoolean semantics.
func (o Object) Bool(name string) bool {
	return o.Get(name).ToBoolean()
}

// Export reads a property and exports it to a Go value.
func (o Object) Export(name string) any {
	return o.Get(name).Export()
}

// Ref reads a property holding another object.
func (o Object) Ref(name string) Optional[Object] {
	if ref, ok := Wrap(o.rt, o.Get(name)); ok {
		return Some(ref)
	}
	return None[Object]()
}

// InstanceOf reports whether the prototype of the global constructor ctor is
// on the object's prototype chain. A missing constructor yields false.
func (o Object) InstanceOf(ctor string) bool {
	if o.obj == nil {
		return false
	}
	c, ok := o.rt.Get(ctor).(*goja.Object)
	if !ok {
		return false
	}
	proto, ok := c.Get("prototype").(*goja.Object)
	if !ok {
		return false
	}
	for p := o.obj.Prototype(); p != nil; p = p.Prototype() {
		if p.SameAs(proto) {
			return true
		}
	}
	return false
}

func (o Object) toJS(v any) any {
	switch h := v.(type) {
	case Object:
		if h.obj == nil {
			return nil
		}
		return h.obj
	case Handle:
		return o.toJS(h.Native())
	}
	return v
}

func isNullish(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}
