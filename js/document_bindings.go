package js

import (
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/net/html"
)

// BindDocument makes doc the binder's document and returns its JS object.
func (b *DOMBinder) BindDocument(doc *Document) *goja.Object {
	b.doc = doc
	return b.BindNode(doc.Root())
}

func (b *DOMBinder) bindDocumentNode(n *html.Node) *goja.Object {
	vm := b.runtime.vm

	obj := vm.NewObject()
	obj.SetPrototype(b.documentProto)
	b.nodeMap[n] = obj
	b.hide(obj, "_goNode", n)
	b.bindNodeProperties(obj, n)

	doc := b.doc
	if doc == nil || doc.Root() != n {
		return obj
	}

	b.accessor(obj, "URL", func() any { return b.runtime.opts.URL }, nil)
	b.accessor(obj, "documentURI", func() any { return b.runtime.opts.URL }, nil)
	b.accessor(obj, "contentType", func() any { return "text/html" }, nil)
	b.accessor(obj, "documentElement", func() any { return b.nodeOrNull(doc.DocumentElement()) }, nil)
	b.accessor(obj, "head", func() any { return b.nodeOrNull(doc.Head()) }, nil)
	b.accessor(obj, "body", func() any { return b.nodeOrNull(doc.Body()) }, nil)
	b.accessor(obj, "activeElement", func() any { return b.nodeOrNull(doc.ActiveElement()) }, nil)
	b.accessor(obj, "title", func() any {
		if t := b.querySelector(n, "title"); t != nil {
			return strings.Join(strings.Fields(textContent(t)), " ")
		}
		return ""
	}, nil)

	obj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		if !validElementName(name) {
			b.throw(errInvalidCharacter("The tag name provided ('" + name + "') is not a valid name."))
		}
		return b.BindElement(doc.CreateElement(name))
	})

	obj.Set("createElementNS", func(call goja.FunctionCall) goja.Value {
		ns := ""
		if v := call.Argument(0); !goja.IsNull(v) && !goja.IsUndefined(v) {
			ns = v.String()
		}
		qname := call.Argument(1).String()
		if !validElementName(qname) || strings.Count(qname, ":") > 1 {
			b.throw(errInvalidCharacter("The qualified name provided ('" + qname + "') contains the invalid name-start character."))
		}
		return b.BindElement(doc.CreateElementNS(ns, qname))
	})

	obj.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		return b.BindNode(&html.Node{Type: html.TextNode, Data: call.Argument(0).String()})
	})

	obj.Set("createComment", func(call goja.FunctionCall) goja.Value {
		return b.BindNode(&html.Node{Type: html.CommentNode, Data: call.Argument(0).String()})
	})

	obj.Set("createEvent", func(call goja.FunctionCall) goja.Value {
		return b.createEvent(call.Argument(0).String())
	})

	obj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		return b.nodeOrNull(doc.GetElementByID(call.Argument(0).String()))
	})

	obj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		name := strings.ToLower(call.Argument(0).String())
		var found []*html.Node
		walkElements(n, func(e *html.Node) bool {
			if name == "*" || strings.ToLower(e.Data) == name {
				found = append(found, e)
			}
			return true
		})
		return b.nodeList(found)
	})

	obj.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		return b.nodeOrNull(b.querySelector(n, call.Argument(0).String()))
	})

	obj.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		return b.nodeList(b.querySelectorAll(n, call.Argument(0).String()))
	})

	obj.Set("hasFocus", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(true)
	})

	return obj
}

// validElementName rejects names createElement would refuse.
func validElementName(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == ':' || c >= 0x80) {
		return false
	}
	return !strings.ContainsAny(name, " \t\n\f\r/>=\"'<&")
}
