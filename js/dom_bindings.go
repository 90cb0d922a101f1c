package js

import (
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/net/html"
)

// DOMBinder builds the JS objects that stand for nodes of the bound
// document. The same node always maps to the same object.
type DOMBinder struct {
	runtime *Runtime
	doc     *Document
	nodeMap map[*html.Node]*goja.Object
	state   map[*html.Node]*nodeState

	// Prototype objects for instanceof checks
	nodeProto         *goja.Object
	elementProto      *goja.Object
	htmlElementProto  *goja.Object
	textProto         *goja.Object
	documentProto     *goja.Object
	tokenListProto    *goja.Object
	styleProto        *goja.Object
	eventProto        *goja.Object
	customEventProto  *goja.Object
	uiEventProto      *goja.Object
	mouseEventProto   *goja.Object
	focusEventProto   *goja.Object
	domExceptionProto *goja.Object
}

// nodeState is host state attached to a node that html.Node cannot hold.
type nodeState struct {
	target      *EventTarget
	style       *goja.Object
	contextMenu *html.Node
	tokenLists  map[string]*goja.Object
	dataset     *goja.Object
}

// NewDOMBinder creates a binder and installs the DOM interface objects
// (Node, Element, HTMLElement, Event, ...) on the runtime's global object.
func NewDOMBinder(runtime *Runtime) *DOMBinder {
	b := &DOMBinder{
		runtime: runtime,
		nodeMap: make(map[*html.Node]*goja.Object),
		state:   make(map[*html.Node]*nodeState),
	}
	b.setupPrototypes()
	b.setupDOMException()
	b.setupEventConstructors()
	return b
}

// ClearCache drops every node binding.
func (b *DOMBinder) ClearCache() {
	b.nodeMap = make(map[*html.Node]*goja.Object)
	b.state = make(map[*html.Node]*nodeState)
}

func (b *DOMBinder) setupPrototypes() {
	vm := b.runtime.vm

	b.nodeProto = b.defineInterface("Node", nil, nil)
	nodeCtor := b.nodeProto.Get("constructor").ToObject(vm)
	nodeCtor.Set("ELEMENT_NODE", 1)
	nodeCtor.Set("TEXT_NODE", 3)
	nodeCtor.Set("COMMENT_NODE", 8)
	nodeCtor.Set("DOCUMENT_NODE", 9)

	b.elementProto = b.defineInterface("Element", b.nodeProto, nil)
	b.htmlElementProto = b.defineInterface("HTMLElement", b.elementProto, nil)
	b.textProto = b.defineInterface("Text", b.nodeProto, nil)
	b.documentProto = b.defineInterface("Document", b.nodeProto, nil)
	b.tokenListProto = b.defineInterface("DOMTokenList", nil, nil)
	b.styleProto = b.defineInterface("CSSStyleDeclaration", nil, nil)
}

// defineInterface installs a global interface object and returns its
// prototype. A nil ctor makes the interface abstract.
func (b *DOMBinder) defineInterface(name string, parent *goja.Object, ctor func(goja.ConstructorCall) *goja.Object) *goja.Object {
	vm := b.runtime.vm

	proto := vm.NewObject()
	if parent != nil {
		proto.SetPrototype(parent)
	}
	if ctor == nil {
		ctor = func(goja.ConstructorCall) *goja.Object {
			panic(vm.NewTypeError("Illegal constructor"))
		}
	}
	ctorObj := vm.ToValue(ctor).ToObject(vm)
	ctorObj.Set("prototype", proto)
	proto.Set("constructor", ctorObj)
	vm.Set(name, ctorObj)
	return proto
}

// accessor defines an enumerable getter/setter pair. A nil set makes the
// property read-only.
func (b *DOMBinder) accessor(obj *goja.Object, name string, get func() any, set func(goja.Value)) {
	vm := b.runtime.vm
	getter := vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(get())
	})
	var setter goja.Value
	if set != nil {
		setter = vm.ToValue(func(call goja.FunctionCall) goja.Value {
			set(call.Argument(0))
			return goja.Undefined()
		})
	}
	obj.DefineAccessorProperty(name, getter, setter, goja.FLAG_FALSE, goja.FLAG_TRUE)
}

// hide stores a Go value on obj under a non-enumerable key.
func (b *DOMBinder) hide(obj *goja.Object, key string, v any) {
	obj.DefineDataProperty(key, b.runtime.vm.ToValue(v), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE)
}

func (b *DOMBinder) stateOf(n *html.Node) *nodeState {
	st, ok := b.state[n]
	if !ok {
		st = &nodeState{target: NewEventTarget()}
		b.state[n] = st
	}
	return st
}

// nodeOf returns the node behind a bound object, or nil.
func (b *DOMBinder) nodeOf(obj *goja.Object) *html.Node {
	if obj == nil {
		return nil
	}
	v := obj.Get("_goNode")
	if v == nil {
		return nil
	}
	n, _ := v.Export().(*html.Node)
	return n
}

// argNode returns the node passed as argument i, throwing TypeError if it is
// not one.
func (b *DOMBinder) argNode(call goja.FunctionCall, i int) *html.Node {
	vm := b.runtime.vm
	obj, ok := call.Argument(i).(*goja.Object)
	if ok {
		if n := b.nodeOf(obj); n != nil {
			return n
		}
	}
	panic(vm.NewTypeError("parameter %d is not of type 'Node'", i+1))
}

// nodeOrNull binds n, mapping nil to null.
func (b *DOMBinder) nodeOrNull(n *html.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	return b.BindNode(n)
}

func (b *DOMBinder) nodeList(nodes []*html.Node) *goja.Object {
	items := make([]any, len(nodes))
	for i, n := range nodes {
		items[i] = b.BindNode(n)
	}
	return b.runtime.vm.NewArray(items...)
}

// BindNode returns the JS object for any node type.
func (b *DOMBinder) BindNode(n *html.Node) *goja.Object {
	if n == nil {
		return nil
	}
	if obj, ok := b.nodeMap[n]; ok {
		return obj
	}

	switch n.Type {
	case html.ElementNode:
		return b.BindElement(n)
	case html.DocumentNode:
		return b.bindDocumentNode(n)
	}

	obj := b.runtime.vm.NewObject()
	if n.Type == html.TextNode {
		obj.SetPrototype(b.textProto)
		b.accessor(obj, "data", func() any { return n.Data }, func(v goja.Value) { n.Data = v.String() })
	} else {
		obj.SetPrototype(b.nodeProto)
	}
	b.nodeMap[n] = obj
	b.hide(obj, "_goNode", n)
	b.bindNodeProperties(obj, n)
	return obj
}

// BindElement returns the JS object for an element. HTML elements get the
// HTMLElement prototype and its properties; other namespaces stop at
// Element.
func (b *DOMBinder) BindElement(n *html.Node) *goja.Object {
	if n == nil {
		return nil
	}
	if obj, ok := b.nodeMap[n]; ok {
		return obj
	}

	obj := b.runtime.vm.NewObject()
	if isHTMLElement(n) {
		obj.SetPrototype(b.htmlElementProto)
	} else {
		obj.SetPrototype(b.elementProto)
	}
	b.nodeMap[n] = obj
	b.hide(obj, "_goNode", n)

	b.bindNodeProperties(obj, n)
	b.bindElementProperties(obj, n)
	if isHTMLElement(n) {
		b.bindHTMLElementProperties(obj, n)
	}
	return obj
}

func (b *DOMBinder) bindNodeProperties(obj *goja.Object, n *html.Node) {
	vm := b.runtime.vm

	obj.Set("nodeType", nodeType(n))
	b.accessor(obj, "nodeName", func() any { return nodeName(n) }, nil)
	b.accessor(obj, "parentNode", func() any { return b.nodeOrNull(n.Parent) }, nil)
	b.accessor(obj, "parentElement", func() any { return b.nodeOrNull(parentElement(n)) }, nil)
	b.accessor(obj, "firstChild", func() any { return b.nodeOrNull(n.FirstChild) }, nil)
	b.accessor(obj, "lastChild", func() any { return b.nodeOrNull(n.LastChild) }, nil)
	b.accessor(obj, "nextSibling", func() any { return b.nodeOrNull(n.NextSibling) }, nil)
	b.accessor(obj, "previousSibling", func() any { return b.nodeOrNull(n.PrevSibling) }, nil)
	b.accessor(obj, "isConnected", func() any { return b.doc != nil && b.doc.Contains(n) }, nil)
	b.accessor(obj, "childNodes", func() any {
		var children []*html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, c)
		}
		return b.nodeList(children)
	}, nil)
	b.accessor(obj, "textContent", func() any {
		if n.Type == html.DocumentNode {
			return goja.Null()
		}
		return textContent(n)
	}, func(v goja.Value) {
		if n.Type == html.DocumentNode {
			return
		}
		text := ""
		if !goja.IsNull(v) && !goja.IsUndefined(v) {
			text = v.String()
		}
		setTextContent(n, text)
	})

	obj.Set("hasChildNodes", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(n.FirstChild != nil)
	})

	obj.Set("contains", func(call goja.FunctionCall) goja.Value {
		other, ok := call.Argument(0).(*goja.Object)
		if !ok {
			return vm.ToValue(false)
		}
		return vm.ToValue(isInclusiveAncestor(n, b.nodeOf(other)))
	})

	obj.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		child := b.argNode(call, 0)
		b.insert(n, child, nil)
		return call.Argument(0)
	})

	obj.Set("insertBefore", func(call goja.FunctionCall) goja.Value {
		child := b.argNode(call, 0)
		var ref *html.Node
		if refObj, ok := call.Argument(1).(*goja.Object); ok {
			ref = b.nodeOf(refObj)
		}
		if ref != nil && ref.Parent != n {
			b.throw(&DOMError{Name: "NotFoundError", Message: "The node before which the new node is to be inserted is not a child of this node."})
		}
		b.insert(n, child, ref)
		return call.Argument(0)
	})

	obj.Set("removeChild", func(call goja.FunctionCall) goja.Value {
		child := b.argNode(call, 0)
		if child.Parent != n {
			b.throw(&DOMError{Name: "NotFoundError", Message: "The node to be removed is not a child of this node."})
		}
		n.RemoveChild(child)
		return call.Argument(0)
	})

	b.bindEventTarget(obj, n)
}

// insert moves child under parent before ref (nil appends).
func (b *DOMBinder) insert(parent, child, ref *html.Node) {
	if parent.Type != html.ElementNode && parent.Type != html.DocumentNode {
		b.throw(errHierarchyRequest("This node type does not support children."))
	}
	if child.Type == html.DocumentNode || isInclusiveAncestor(child, parent) {
		b.throw(errHierarchyRequest("The new child element contains the parent."))
	}
	if ref == child {
		ref = child.NextSibling
	}
	detach(child)
	if ref == nil {
		parent.AppendChild(child)
	} else {
		parent.InsertBefore(child, ref)
	}
}

func (b *DOMBinder) bindElementProperties(obj *goja.Object, n *html.Node) {
	vm := b.runtime.vm

	b.accessor(obj, "tagName", func() any { return nodeName(n) }, nil)
	b.accessor(obj, "localName", func() any { return n.Data }, nil)
	b.accessor(obj, "namespaceURI", func() any {
		if ns := namespaceURI(n); ns != "" {
			return ns
		}
		return goja.Null()
	}, nil)
	b.accessor(obj, "prefix", func() any {
		if b.doc != nil {
			if p := b.doc.Prefix(n); p != "" {
				return p
			}
		}
		return goja.Null()
	}, nil)

	b.reflectString(obj, n, "id", "id")
	b.reflectString(obj, n, "className", "class")
	b.accessor(obj, "classList", func() any { return b.tokenList(n, "class") }, nil)

	b.accessor(obj, "innerHTML", func() any {
		s, err := innerHTML(n)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return s
	}, func(v goja.Value) {
		if err := setInnerHTML(n, v.String()); err != nil {
			b.throw(errSyntax(err.Error()))
		}
	})
	b.accessor(obj, "outerHTML", func() any {
		s, err := outerHTML(n)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return s
	}, nil)

	// Attribute methods
	obj.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		v, ok := getAttr(n, call.Argument(0).String())
		if !ok {
			return goja.Null()
		}
		return vm.ToValue(v)
	})

	obj.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		if !validAttrName(name) {
			b.throw(errInvalidCharacter("'" + name + "' is not a valid attribute name."))
		}
		setAttr(n, name, call.Argument(1).String())
		return goja.Undefined()
	})

	obj.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(hasAttr(n, call.Argument(0).String()))
	})

	obj.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		removeAttr(n, call.Argument(0).String())
		return goja.Undefined()
	})

	obj.Set("toggleAttribute", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		if !validAttrName(name) {
			b.throw(errInvalidCharacter("'" + name + "' is not a valid attribute name."))
		}
		on := !hasAttr(n, name)
		if len(call.Arguments) > 1 && !goja.IsUndefined(call.Arguments[1]) {
			on = call.Arguments[1].ToBoolean()
		}
		if on && !hasAttr(n, name) {
			setAttr(n, name, "")
		} else if !on {
			removeAttr(n, name)
		}
		return vm.ToValue(on)
	})

	obj.Set("hasAttributes", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(len(n.Attr) > 0)
	})

	obj.Set("getAttributeNames", func(call goja.FunctionCall) goja.Value {
		names := make([]any, len(n.Attr))
		for i, a := range n.Attr {
			names[i] = a.Key
		}
		return vm.NewArray(names...)
	})

	// ParentNode mixin
	b.accessor(obj, "children", func() any { return b.nodeList(childElements(n)) }, nil)
	b.accessor(obj, "childElementCount", func() any { return len(childElements(n)) }, nil)
	b.accessor(obj, "firstElementChild", func() any {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if isElement(c) {
				return b.BindElement(c)
			}
		}
		return goja.Null()
	}, nil)
	b.accessor(obj, "lastElementChild", func() any {
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			if isElement(c) {
				return b.BindElement(c)
			}
		}
		return goja.Null()
	}, nil)

	obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		detach(n)
		return goja.Undefined()
	})

	// Query methods
	obj.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		return b.nodeOrNull(b.querySelector(n, call.Argument(0).String()))
	})

	obj.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		return b.nodeList(b.querySelectorAll(n, call.Argument(0).String()))
	})

	obj.Set("matches", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.matches(n, call.Argument(0).String()))
	})

	obj.Set("closest", func(call goja.FunctionCall) goja.Value {
		return b.nodeOrNull(b.closest(n, call.Argument(0).String()))
	})
}

// reflectString binds prop to the string value of attr.
func (b *DOMBinder) reflectString(obj *goja.Object, n *html.Node, prop, attr string) {
	b.accessor(obj, prop, func() any {
		v, _ := getAttr(n, attr)
		return v
	}, func(v goja.Value) {
		setAttr(n, attr, v.String())
	})
}

// reflectBool binds prop to the presence of attr.
func (b *DOMBinder) reflectBool(obj *goja.Object, n *html.Node, prop, attr string) {
	b.accessor(obj, prop, func() any {
		return hasAttr(n, attr)
	}, func(v goja.Value) {
		setBoolAttr(n, attr, v.ToBoolean())
	})
}

func childElements(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c) {
			out = append(out, c)
		}
	}
	return out
}

func nodeType(n *html.Node) int {
	switch n.Type {
	case html.ElementNode:
		return 1
	case html.TextNode:
		return 3
	case html.CommentNode:
		return 8
	case html.DocumentNode:
		return 9
	case html.DoctypeNode:
		return 10
	}
	return 0
}

func nodeName(n *html.Node) string {
	switch n.Type {
	case html.ElementNode:
		if isHTMLElement(n) {
			return strings.ToUpper(n.Data)
		}
		return n.Data
	case html.TextNode:
		return "#text"
	case html.CommentNode:
		return "#comment"
	case html.DocumentNode:
		return "#document"
	case html.DoctypeNode:
		return n.Data
	}
	return ""
}
