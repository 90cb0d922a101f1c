// Package js is an in-process document host. It runs a goja JavaScript
// runtime whose global document, elements, events and style objects are
// backed by golang.org/x/net/html nodes, so that code written against the
// browser DOM can be exercised without a browser.
package js

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

// Options configures a Runtime.
type Options struct {
	// Logger receives console output and host diagnostics.
	// Defaults to the logrus standard logger.
	Logger logrus.FieldLogger

	// AccessKeyModifiers prefixes accessKeyLabel, e.g. "Alt+Shift".
	AccessKeyModifiers string

	// URL is reported by document.URL.
	URL string
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	if o.AccessKeyModifiers == "" {
		o.AccessKeyModifiers = "Alt+Shift"
	}
	if o.URL == "" {
		o.URL = "about:blank"
	}
}

// Runtime wraps a goja runtime with a bound document.
type Runtime struct {
	vm      *goja.Runtime
	opts    Options
	log     logrus.FieldLogger
	binder  *DOMBinder
	doc     *Document
	loop    *eventLoop
	mu      sync.Mutex
	errors  []error
	onError func(error)
}

// NewRuntime creates a runtime with an empty HTML document bound to the
// global document.
func NewRuntime(opts Options) *Runtime {
	opts.setDefaults()

	r := &Runtime{
		vm:   goja.New(),
		opts: opts,
		log:  opts.Logger.WithField("component", "js"),
		loop: newEventLoop(),
	}

	r.setupConsole()
	r.setupTimers()
	r.binder = NewDOMBinder(r)
	r.setDocument(NewDocument())

	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// Document returns the Go side of the bound document.
func (r *Runtime) Document() *Document {
	return r.doc
}

// LoadHTML parses src and binds it as the new global document.
func (r *Runtime) LoadHTML(src io.Reader) error {
	doc, err := ParseHTML(src)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setDocument(doc)
	return nil
}

func (r *Runtime) setDocument(doc *Document) {
	r.doc = doc
	r.binder.ClearCache()
	r.vm.Set("document", r.binder.BindDocument(doc))
}

// NodeOf returns the html node behind a bound JS value.
func (r *Runtime) NodeOf(v goja.Value) (*html.Node, bool) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, false
	}
	n := r.binder.nodeOf(obj)
	return n, n != nil
}

// SetOnError sets a callback for script and listener errors.
func (r *Runtime) SetOnError(handler func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = handler
}

// Execute runs JavaScript code and returns the completion value.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script execution panic: %v", p)
			r.recordError(err)
		}
	}()

	result, err = r.vm.RunString(code)
	if err != nil {
		r.recordError(err)
	}
	r.runMicrotasks()
	return result, err
}

// RunScript compiles and runs code in sloppy mode, naming it src in stack
// traces.
func (r *Runtime) RunScript(src, code string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script compilation panic in %s: %v", src, p)
			r.recordError(err)
		}
	}()

	program, err := goja.Compile(src, code, false)
	if err != nil {
		r.recordError(err)
		return err
	}
	if _, err = r.vm.RunProgram(program); err != nil {
		r.recordError(err)
	}
	r.runMicrotasks()
	return err
}

// Errors returns all errors recorded so far.
func (r *Runtime) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error{}, r.errors...)
}

// ClearErrors clears the error list.
func (r *Runtime) ClearErrors() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = r.errors[:0]
}

// recordError is called on the VM goroutine.
func (r *Runtime) recordError(err error) {
	r.errors = append(r.errors, err)
	r.log.WithError(err).Debug("script error")
	if r.onError != nil {
		r.onError(err)
	}
}

func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()
	log := r.log.WithField("source", "console")

	levels := map[string]func(...any){
		"log":   log.Info,
		"info":  log.Info,
		"warn":  log.Warn,
		"error": log.Error,
		"debug": log.Debug,
		"trace": log.Debug,
	}
	for name, fn := range levels {
		fn := fn
		console.Set(name, func(call goja.FunctionCall) goja.Value {
			fn(formatArgs(call.Arguments))
			return goja.Undefined()
		})
	}

	console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "Assertion failed"
			if len(call.Arguments) > 1 {
				msg = formatArgs(call.Arguments[1:])
			}
			log.Error(msg)
		}
		return goja.Undefined()
	})

	r.vm.Set("console", console)
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		switch {
		case goja.IsUndefined(arg):
			parts[i] = "undefined"
		case goja.IsNull(arg):
			parts[i] = "null"
		default:
			parts[i] = arg.String()
		}
	}
	return strings.Join(parts, " ")
}
