package js

import (
	"fmt"

	"github.com/dop251/goja"
)

// DOMError is a DOM exception raised by the host.
type DOMError struct {
	Name    string
	Message string
}

func (e *DOMError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

func errSyntax(message string) *DOMError {
	return &DOMError{Name: "SyntaxError", Message: message}
}

func errInvalidCharacter(message string) *DOMError {
	return &DOMError{Name: "InvalidCharacterError", Message: message}
}

func errHierarchyRequest(message string) *DOMError {
	return &DOMError{Name: "HierarchyRequestError", Message: message}
}

func errNotSupported(message string) *DOMError {
	return &DOMError{Name: "NotSupportedError", Message: message}
}

func errInvalidState(message string) *DOMError {
	return &DOMError{Name: "InvalidStateError", Message: message}
}

func errInvalidAccess(message string) *DOMError {
	return &DOMError{Name: "InvalidAccessError", Message: message}
}

// legacy DOMException codes
var domExceptionCodes = map[string]int{
	"IndexSizeError":        1,
	"HierarchyRequestError": 3,
	"InvalidCharacterError": 5,
	"NotFoundError":         8,
	"NotSupportedError":     9,
	"InvalidStateError":     11,
	"SyntaxError":           12,
	"InvalidAccessError":    15,
}

func (b *DOMBinder) setupDOMException() {
	vm := b.runtime.vm

	b.domExceptionProto = vm.NewObject()
	errorProto := vm.Get("Error").ToObject(vm).Get("prototype").ToObject(vm)
	b.domExceptionProto.SetPrototype(errorProto)

	ctor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		message, name := "", "Error"
		if len(call.Arguments) > 0 {
			message = call.Arguments[0].String()
		}
		if len(call.Arguments) > 1 {
			name = call.Arguments[1].String()
		}
		exc := call.This
		exc.Set("message", message)
		exc.Set("name", name)
		exc.Set("code", domExceptionCodes[name])
		return exc
	}).ToObject(vm)
	ctor.Set("prototype", b.domExceptionProto)
	b.domExceptionProto.Set("constructor", ctor)
	vm.Set("DOMException", ctor)
}

func (b *DOMBinder) createDOMException(err *DOMError) *goja.Object {
	exc := b.runtime.vm.NewObject()
	exc.SetPrototype(b.domExceptionProto)
	exc.Set("name", err.Name)
	exc.Set("message", err.Message)
	exc.Set("code", domExceptionCodes[err.Name])
	return exc
}

// throw raises err as a DOMException inside the running script.
func (b *DOMBinder) throw(err *DOMError) {
	panic(b.createDOMException(err))
}
