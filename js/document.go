package js

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Namespace URIs.
const (
	HTMLNamespace   = "http://www.w3.org/1999/xhtml"
	SVGNamespace    = "http://www.w3.org/2000/svg"
	MathMLNamespace = "http://www.w3.org/1998/Math/MathML"

	// noNamespace marks elements created with a null namespace; the parser
	// uses "" for HTML.
	noNamespace = "#none"
)

// Document is the Go side of a hosted document: the node tree plus the
// state the tree itself cannot carry (focus, layout geometry).
type Document struct {
	root     *html.Node
	active   *html.Node
	geometry map[*html.Node]Geometry
	prefixes map[*html.Node]string
}

// NewDocument returns an empty HTML document with head and body.
func NewDocument() *Document {
	doc, err := ParseHTML(strings.NewReader("<!DOCTYPE html><html><head></head><body></body></html>"))
	if err != nil {
		// the parser does not fail on in-memory input
		panic(err)
	}
	return doc
}

// ParseHTML parses an HTML document.
func ParseHTML(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{
		root:     root,
		geometry: make(map[*html.Node]Geometry),
		prefixes: make(map[*html.Node]string),
	}, nil
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// DocumentElement returns the html element.
func (d *Document) DocumentElement() *html.Node {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// Body returns the body element, or nil.
func (d *Document) Body() *html.Node {
	return d.childOfRootElement(atom.Body)
}

// Head returns the head element, or nil.
func (d *Document) Head() *html.Node {
	return d.childOfRootElement(atom.Head)
}

func (d *Document) childOfRootElement(a atom.Atom) *html.Node {
	de := d.DocumentElement()
	if de == nil {
		return nil
	}
	for c := de.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a && c.Namespace == "" {
			return c
		}
	}
	return nil
}

// Contains reports whether n is connected to this document.
func (d *Document) Contains(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == d.root {
			return true
		}
	}
	return false
}

// ActiveElement returns the focused element, falling back to body.
func (d *Document) ActiveElement() *html.Node {
	if d.active != nil && d.Contains(d.active) {
		return d.active
	}
	return d.Body()
}

// GetElementByID returns the first connected element with the given id.
func (d *Document) GetElementByID(id string) *html.Node {
	var found *html.Node
	walkElements(d.root, func(n *html.Node) bool {
		if v, ok := getAttr(n, "id"); ok && v == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// CreateElement creates a detached HTML element.
func (d *Document) CreateElement(localName string) *html.Node {
	localName = strings.ToLower(localName)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     localName,
		DataAtom: atom.Lookup([]byte(localName)),
	}
}

// CreateElementNS creates a detached element in the given namespace.
func (d *Document) CreateElementNS(namespaceURI, qualifiedName string) *html.Node {
	prefix, local := "", qualifiedName
	if i := strings.IndexByte(qualifiedName, ':'); i >= 0 {
		prefix, local = qualifiedName[:i], qualifiedName[i+1:]
	}
	n := &html.Node{
		Type:      html.ElementNode,
		Data:      local,
		Namespace: nodeNamespace(namespaceURI),
	}
	if n.Namespace == "" {
		n.DataAtom = atom.Lookup([]byte(local))
	}
	if prefix != "" {
		d.prefixes[n] = prefix
	}
	return n
}

// Prefix returns the namespace prefix an element was created with.
func (d *Document) Prefix(n *html.Node) string {
	return d.prefixes[n]
}

// namespaceURI maps the parser's short namespace names to URIs.
func namespaceURI(n *html.Node) string {
	switch n.Namespace {
	case "":
		return HTMLNamespace
	case "svg":
		return SVGNamespace
	case "math":
		return MathMLNamespace
	case noNamespace:
		return ""
	}
	return n.Namespace
}

func nodeNamespace(uri string) string {
	switch uri {
	case HTMLNamespace:
		return ""
	case SVGNamespace:
		return "svg"
	case MathMLNamespace:
		return "math"
	case "":
		return noNamespace
	}
	return uri
}

func isElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

func isHTMLElement(n *html.Node) bool {
	return isElement(n) && n.Namespace == ""
}

func isHTMLTag(n *html.Node, a atom.Atom) bool {
	return isHTMLElement(n) && n.DataAtom == a
}

// walkElements visits element descendants of n in tree order until fn
// returns false.
func walkElements(n *html.Node, fn func(*html.Node) bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && !fn(c) {
			return false
		}
		if !walkElements(c, fn) {
			return false
		}
	}
	return true
}

func parentElement(n *html.Node) *html.Node {
	if isElement(n.Parent) {
		return n.Parent
	}
	return nil
}

func isInclusiveAncestor(ancestor, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode || n.Type == html.CommentNode {
		return n.Data
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func setTextContent(n *html.Node, text string) {
	if n.Type == html.TextNode || n.Type == html.CommentNode {
		n.Data = text
		return
	}
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

func innerHTML(n *html.Node) (string, error) {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func outerHTML(n *html.Node) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func setInnerHTML(n *html.Node, markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), n)
	if err != nil {
		return err
	}
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// Attributes. Names of HTML elements are matched case-insensitively.

func attrKey(n *html.Node, name string) string {
	if isHTMLElement(n) {
		return strings.ToLower(name)
	}
	return name
}

func getAttr(n *html.Node, name string) (string, bool) {
	key := attrKey(n, name)
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, name string) bool {
	_, ok := getAttr(n, name)
	return ok
}

func setAttr(n *html.Node, name, value string) {
	key := attrKey(n, name)
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func removeAttr(n *html.Node, name string) {
	key := attrKey(n, name)
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func setBoolAttr(n *html.Node, name string, on bool) {
	if on {
		setAttr(n, name, "")
	} else {
		removeAttr(n, name)
	}
}

// validAttrName rejects names the DOM would refuse with InvalidCharacterError.
func validAttrName(name string) bool {
	return name != "" && !strings.ContainsAny(name, " \t\n\f\r/>=\"'")
}
