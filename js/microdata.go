package js

import (
	"github.com/dop251/goja"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// itemValueAttr returns the attribute holding the microdata value of n, or
// "" when the value is the element's text.
func itemValueAttr(n *html.Node) string {
	if !isHTMLElement(n) {
		return ""
	}
	switch n.DataAtom {
	case atom.Meta:
		return "content"
	case atom.Audio, atom.Embed, atom.Iframe, atom.Img, atom.Source, atom.Track, atom.Video:
		return "src"
	case atom.A, atom.Area, atom.Link:
		return "href"
	case atom.Object:
		return "data"
	case atom.Data, atom.Meter:
		return "value"
	case atom.Time:
		return "datetime"
	}
	return ""
}

func (b *DOMBinder) itemValue(n *html.Node) goja.Value {
	vm := b.runtime.vm
	if !hasAttr(n, "itemprop") {
		return goja.Null()
	}
	if hasAttr(n, "itemscope") {
		return b.BindElement(n)
	}
	attr := itemValueAttr(n)
	if attr == "" {
		return vm.ToValue(textContent(n))
	}
	v, ok := getAttr(n, attr)
	if !ok && n.DataAtom == atom.Time {
		return vm.ToValue(textContent(n))
	}
	return vm.ToValue(v)
}

func (b *DOMBinder) setItemValue(n *html.Node, v goja.Value) {
	if !hasAttr(n, "itemprop") {
		b.throw(errInvalidAccess("The element has no 'itemprop' attribute."))
	}
	if hasAttr(n, "itemscope") {
		b.throw(errInvalidAccess("The element has an 'itemscope' attribute."))
	}
	value := ""
	if !goja.IsNull(v) && !goja.IsUndefined(v) {
		value = v.String()
	}
	if attr := itemValueAttr(n); attr != "" {
		setAttr(n, attr, value)
		return
	}
	setTextContent(n, value)
}
