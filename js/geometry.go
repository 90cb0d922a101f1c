package js

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Geometry is the layout box of an element in CSS pixels, relative to the
// document origin. The host performs no layout; boxes are supplied by the
// embedder with Document.SetGeometry.
type Geometry struct {
	Top    int `yaml:"top"`
	Left   int `yaml:"left"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SetGeometry records the layout box of n.
func (d *Document) SetGeometry(n *html.Node, g Geometry) {
	d.geometry[n] = g
}

// Geometry returns the recorded box of n.
func (d *Document) Geometry(n *html.Node) (Geometry, bool) {
	g, ok := d.geometry[n]
	return g, ok
}

// rendered reports whether n takes part in layout: it must be connected
// and neither it nor an ancestor may be hidden.
func (d *Document) rendered(n *html.Node) bool {
	if !d.Contains(n) {
		return false
	}
	for p := n; isElement(p); p = p.Parent {
		if hasAttr(p, "hidden") || inlineStyle(p, "display") == "none" {
			return false
		}
	}
	return true
}

// OffsetParent returns the element offsets are measured from, or nil for
// elements outside layout and for the root and body elements.
func (d *Document) OffsetParent(n *html.Node) *html.Node {
	if !d.rendered(n) || isHTMLTag(n, atom.Body) || isHTMLTag(n, atom.Html) {
		return nil
	}
	if inlineStyle(n, "position") == "fixed" {
		return nil
	}
	for p := parentElement(n); p != nil; p = parentElement(p) {
		if isHTMLTag(p, atom.Body) || positioned(p) {
			return p
		}
		if inlineStyle(n, "position") == "" || inlineStyle(n, "position") == "static" {
			if isHTMLTag(p, atom.Td) || isHTMLTag(p, atom.Th) || isHTMLTag(p, atom.Table) {
				return p
			}
		}
	}
	return nil
}

func positioned(n *html.Node) bool {
	pos := inlineStyle(n, "position")
	return pos != "" && pos != "static"
}

// Offsets returns offsetTop, offsetLeft, offsetWidth and offsetHeight of n.
// Everything is zero for elements outside layout.
func (d *Document) Offsets(n *html.Node) (top, left, width, height int) {
	if !d.rendered(n) {
		return 0, 0, 0, 0
	}
	g := d.geometry[n]
	top, left = g.Top, g.Left
	if p := d.OffsetParent(n); p != nil && !isHTMLTag(p, atom.Body) {
		pg := d.geometry[p]
		top -= pg.Top
		left -= pg.Left
	}
	return top, left, g.Width, g.Height
}
