package js

import (
	"strconv"
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// bindHTMLElementProperties adds the HTMLElement interface to an element in
// the HTML namespace.
func (b *DOMBinder) bindHTMLElementProperties(obj *goja.Object, n *html.Node) {
	vm := b.runtime.vm

	b.reflectString(obj, n, "accessKey", "accesskey")
	b.accessor(obj, "accessKeyLabel", func() any { return b.accessKeyLabel(n) }, nil)

	b.accessor(obj, "contentEditable", func() any {
		return editableState(n)
	}, func(v goja.Value) {
		switch s := strings.ToLower(v.String()); s {
		case "inherit":
			removeAttr(n, "contenteditable")
		case "true", "false", "plaintext-only":
			setAttr(n, "contenteditable", s)
		default:
			b.throw(errSyntax("The value provided ('" + v.String() + "') is not one of 'true', 'false', 'plaintext-only', or 'inherit'."))
		}
	})
	b.accessor(obj, "isContentEditable", func() any { return isContentEditable(n) }, nil)

	b.accessor(obj, "contextMenu", func() any {
		return b.nodeOrNull(b.stateOf(n).contextMenu)
	}, func(v goja.Value) {
		if goja.IsNull(v) || goja.IsUndefined(v) {
			b.stateOf(n).contextMenu = nil
			return
		}
		menuObj, _ := v.(*goja.Object)
		menu := b.nodeOf(menuObj)
		if !isElement(menu) {
			panic(vm.NewTypeError("Failed to set the 'contextMenu' property: The provided value is not of type 'HTMLElement'."))
		}
		b.stateOf(n).contextMenu = menu
	})

	b.accessor(obj, "dataset", func() any { return b.dataset(n) }, nil)

	b.accessor(obj, "dir", func() any {
		v, _ := getAttr(n, "dir")
		switch s := strings.ToLower(v); s {
		case "ltr", "rtl", "auto":
			return s
		}
		return ""
	}, func(v goja.Value) {
		setAttr(n, "dir", v.String())
	})

	b.accessor(obj, "draggable", func() any { return draggable(n) }, func(v goja.Value) {
		setAttr(n, "draggable", strconv.FormatBool(v.ToBoolean()))
	})

	b.reflectString(obj, n, "dropzone", "dropzone")
	b.reflectBool(obj, n, "hidden", "hidden")

	// Microdata
	b.reflectBool(obj, n, "itemScope", "itemscope")
	b.reflectString(obj, n, "itemId", "itemid")
	b.accessor(obj, "itemType", func() any { return b.tokenList(n, "itemtype") }, nil)
	b.accessor(obj, "itemRef", func() any { return b.tokenList(n, "itemref") }, nil)
	b.accessor(obj, "itemProp", func() any { return b.tokenList(n, "itemprop") }, nil)
	b.accessor(obj, "itemValue", func() any { return b.itemValue(n) }, func(v goja.Value) {
		b.setItemValue(n, v)
	})

	b.reflectString(obj, n, "lang", "lang")

	// Layout
	b.accessor(obj, "offsetParent", func() any { return b.nodeOrNull(b.offsetParent(n)) }, nil)
	b.accessor(obj, "offsetTop", func() any { top, _, _, _ := b.offsets(n); return top }, nil)
	b.accessor(obj, "offsetLeft", func() any { _, left, _, _ := b.offsets(n); return left }, nil)
	b.accessor(obj, "offsetWidth", func() any { _, _, w, _ := b.offsets(n); return w }, nil)
	b.accessor(obj, "offsetHeight", func() any { _, _, _, h := b.offsets(n); return h }, nil)

	b.accessor(obj, "spellcheck", func() any { return spellcheck(n) }, func(v goja.Value) {
		setAttr(n, "spellcheck", strconv.FormatBool(v.ToBoolean()))
	})

	b.accessor(obj, "style", func() any { return b.style(n) }, func(v goja.Value) {
		setAttr(n, "style", v.String())
	})

	b.accessor(obj, "tabIndex", func() any { return tabIndex(n) }, func(v goja.Value) {
		setAttr(n, "tabindex", strconv.FormatInt(v.ToInteger(), 10))
	})

	b.reflectString(obj, n, "title", "title")

	b.accessor(obj, "translate", func() any { return translate(n) }, func(v goja.Value) {
		if v.ToBoolean() {
			setAttr(n, "translate", "yes")
		} else {
			setAttr(n, "translate", "no")
		}
	})

	b.accessor(obj, "innerText", func() any { return textContent(n) }, func(v goja.Value) {
		setTextContent(n, v.String())
	})

	// Actions
	obj.Set("blur", func(call goja.FunctionCall) goja.Value {
		b.blur(n)
		return goja.Undefined()
	})

	obj.Set("focus", func(call goja.FunctionCall) goja.Value {
		b.focus(n)
		return goja.Undefined()
	})

	obj.Set("click", func(call goja.FunctionCall) goja.Value {
		b.click(n)
		return goja.Undefined()
	})

	obj.Set("forceSpellCheck", func(call goja.FunctionCall) goja.Value {
		b.runtime.log.WithField("element", nodeName(n)).Debug("forceSpellCheck: no spelling checker attached")
		return goja.Undefined()
	})
}

func (b *DOMBinder) accessKeyLabel(n *html.Node) string {
	v, _ := getAttr(n, "accesskey")
	keys := strings.Fields(v)
	if len(keys) == 0 {
		return ""
	}
	key := strings.ToUpper(keys[0])
	if b.runtime.opts.AccessKeyModifiers == "" {
		return key
	}
	return b.runtime.opts.AccessKeyModifiers + "+" + key
}

// editableState is the contentEditable keyword of n's own attribute.
func editableState(n *html.Node) string {
	v, ok := getAttr(n, "contenteditable")
	if !ok {
		return "inherit"
	}
	switch s := strings.ToLower(v); s {
	case "", "true":
		return "true"
	case "false", "plaintext-only":
		return s
	}
	return "inherit"
}

// isContentEditable resolves inherit through the ancestor chain.
func isContentEditable(n *html.Node) bool {
	for p := n; isHTMLElement(p); p = p.Parent {
		switch editableState(p) {
		case "true", "plaintext-only":
			return true
		case "false":
			return false
		}
	}
	return false
}

func draggable(n *html.Node) bool {
	v, _ := getAttr(n, "draggable")
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	if n.DataAtom == atom.Img {
		return true
	}
	return n.DataAtom == atom.A && hasAttr(n, "href")
}

// spellcheck honours the nearest ancestor with a spellcheck attribute and
// defaults to true.
func spellcheck(n *html.Node) bool {
	for p := n; isHTMLElement(p); p = p.Parent {
		v, ok := getAttr(p, "spellcheck")
		if !ok {
			continue
		}
		switch strings.ToLower(v) {
		case "", "true":
			return true
		case "false":
			return false
		}
	}
	return true
}

// translate honours the nearest ancestor with a translate attribute and
// defaults to true.
func translate(n *html.Node) bool {
	for p := n; isHTMLElement(p); p = p.Parent {
		v, ok := getAttr(p, "translate")
		if !ok {
			continue
		}
		switch strings.ToLower(v) {
		case "", "yes":
			return true
		case "no":
			return false
		}
	}
	return true
}

func tabIndex(n *html.Node) int {
	if v, ok := getAttr(n, "tabindex"); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	if focusableByDefault(n) {
		return 0
	}
	return -1
}

func focusableByDefault(n *html.Node) bool {
	switch n.DataAtom {
	case atom.A, atom.Area:
		return hasAttr(n, "href")
	case atom.Button, atom.Select, atom.Textarea, atom.Iframe, atom.Summary:
		return true
	case atom.Input:
		t, _ := getAttr(n, "type")
		return !strings.EqualFold(t, "hidden")
	}
	return isContentEditable(n)
}

func disabledControl(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Button, atom.Input, atom.Select, atom.Textarea, atom.Fieldset, atom.Optgroup, atom.Option:
		return hasAttr(n, "disabled")
	}
	return false
}

func (b *DOMBinder) focusable(n *html.Node) bool {
	if disabledControl(n) || (b.doc != nil && !b.doc.rendered(n)) {
		return false
	}
	return hasAttr(n, "tabindex") || focusableByDefault(n)
}

func (b *DOMBinder) focus(n *html.Node) {
	if b.doc == nil || !b.doc.Contains(n) || !b.focusable(n) {
		return
	}
	if b.doc.active == n {
		return
	}
	if prev := b.doc.active; prev != nil {
		b.blur(prev)
	}
	b.doc.active = n
	b.fire(n, b.focusEventProto, "focus", false, false)
	b.fire(n, b.focusEventProto, "focusin", true, false)
}

func (b *DOMBinder) blur(n *html.Node) {
	if b.doc == nil || b.doc.active != n {
		return
	}
	b.doc.active = nil
	b.fire(n, b.focusEventProto, "blur", false, false)
	b.fire(n, b.focusEventProto, "focusout", true, false)
}

// click fires a synthetic click. Checkboxes and radio buttons toggle
// before dispatch and revert if a listener cancels the event.
func (b *DOMBinder) click(n *html.Node) {
	if disabledControl(n) {
		return
	}

	toggled := false
	var before bool
	if n.DataAtom == atom.Input {
		t, _ := getAttr(n, "type")
		switch strings.ToLower(t) {
		case "checkbox":
			before = hasAttr(n, "checked")
			setBoolAttr(n, "checked", !before)
			toggled = true
		case "radio":
			before = hasAttr(n, "checked")
			setBoolAttr(n, "checked", true)
			toggled = true
		}
	}

	if !b.fire(n, b.mouseEventProto, "click", true, true) && toggled {
		setBoolAttr(n, "checked", before)
	}
}

func (b *DOMBinder) offsetParent(n *html.Node) *html.Node {
	if b.doc == nil {
		return nil
	}
	return b.doc.OffsetParent(n)
}

func (b *DOMBinder) offsets(n *html.Node) (top, left, width, height int) {
	if b.doc == nil {
		return 0, 0, 0, 0
	}
	return b.doc.Offsets(n)
}
