// Package probe builds typed inspection reports of the HTML elements in a
// document. It reads the document only through the dom bindings, so a report
// reflects exactly what typed callers observe.
package probe

import (
	"fmt"
	"strings"

	"github.com/chrisuehlinger/typeddom/dom"
	"github.com/chrisuehlinger/typeddom/native"
)

// Report describes every HTML element matched by a selector.
type Report struct {
	URL      string    `yaml:"url"`
	Title    string    `yaml:"title,omitempty"`
	Selector string    `yaml:"selector"`
	Elements []Element `yaml:"elements"`
	// Skipped lists matches that are not HTML elements, such as SVG.
	Skipped []string `yaml:"skipped,omitempty"`
}

// Element is the typed state of one HTML element.
type Element struct {
	Path              string            `yaml:"path"`
	ID                string            `yaml:"id,omitempty"`
	Classes           []string          `yaml:"classes,omitempty"`
	Title             string            `yaml:"title,omitempty"`
	Lang              string            `yaml:"lang,omitempty"`
	Dir               string            `yaml:"dir"`
	ContentEditable   string            `yaml:"contentEditable"`
	IsContentEditable bool              `yaml:"isContentEditable"`
	Hidden            bool              `yaml:"hidden"`
	Draggable         bool              `yaml:"draggable"`
	Spellcheck        bool              `yaml:"spellcheck"`
	Translate         bool              `yaml:"translate"`
	TabIndex          int               `yaml:"tabIndex"`
	AccessKey         string            `yaml:"accessKey,omitempty"`
	AccessKeyLabel    string            `yaml:"accessKeyLabel,omitempty"`
	ContextMenu       string            `yaml:"contextMenu,omitempty"`
	Dataset           map[string]string `yaml:"dataset,omitempty"`
	Style             string            `yaml:"style,omitempty"`
	Item              *Microdata        `yaml:"item,omitempty"`
	Box               *Box              `yaml:"box,omitempty"`
}

// Microdata is reported for elements that take part in an item.
type Microdata struct {
	Scope bool     `yaml:"scope"`
	ID    string   `yaml:"id,omitempty"`
	Type  []string `yaml:"type,omitempty"`
	Ref   []string `yaml:"ref,omitempty"`
	Prop  []string `yaml:"prop,omitempty"`
	Value string   `yaml:"value,omitempty"`
}

// Box is the element's offset box. It is only reported for rendered
// elements.
type Box struct {
	Top    int    `yaml:"top"`
	Left   int    `yaml:"left"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Parent string `yaml:"parent,omitempty"`
}

// Inspect reports on the elements of doc matching selector.
func Inspect(doc dom.Document, selector string) (*Report, error) {
	matches, err := doc.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("select %q: %w", selector, err)
	}

	r := &Report{
		URL:      doc.URL(),
		Title:    doc.Title(),
		Selector: selector,
		Elements: make([]Element, 0, len(matches)),
	}
	for _, el := range matches {
		h, ok := dom.AsHTMLElement(el).Get()
		if !ok {
			r.Skipped = append(r.Skipped, Describe(el))
			continue
		}
		e, err := InspectElement(h)
		if err != nil {
			return nil, fmt.Errorf("inspect %s: %w", Describe(el), err)
		}
		r.Elements = append(r.Elements, e)
	}
	return r, nil
}

// InspectElement reads the typed state of a single element. Decoding
// failures are returned as they come from the enum codecs.
func InspectElement(h dom.HTMLElement) (Element, error) {
	e := Element{
		Path:              Path(h.Element),
		ID:                h.ID(),
		Title:             h.Title(),
		Lang:              h.Lang(),
		IsContentEditable: h.IsContentEditable(),
		TabIndex:          h.TabIndex(),
		AccessKey:         h.AccessKey(),
		AccessKeyLabel:    h.AccessKeyLabel(),
		Style:             h.Style().CSSText(),
	}

	classes, err := h.ClassList().Items()
	if err != nil {
		return e, err
	}
	e.Classes = nonEmpty(classes)

	dir, err := h.Dir()
	if err != nil {
		return e, err
	}
	e.Dir = dir.String()

	editable, err := h.ContentEditable()
	if err != nil {
		return e, err
	}
	e.ContentEditable = editable.String()

	for _, f := range []struct {
		dst  *bool
		read func() (bool, error)
	}{
		{&e.Hidden, h.Hidden},
		{&e.Draggable, h.Draggable},
		{&e.Spellcheck, h.Spellcheck},
		{&e.Translate, h.Translate},
	} {
		if *f.dst, err = f.read(); err != nil {
			return e, err
		}
	}

	if menu, ok := h.ContextMenu().Get(); ok {
		e.ContextMenu = Describe(menu)
	}

	ds := h.Dataset()
	if keys := ds.Keys(); len(keys) > 0 {
		e.Dataset = make(map[string]string, len(keys))
		for _, k := range keys {
			e.Dataset[k] = ds.Get(k).OrElse("")
		}
	}

	if e.Item, err = microdata(h); err != nil {
		return e, err
	}
	e.Box = box(h)
	return e, nil
}

func microdata(h dom.HTMLElement) (*Microdata, error) {
	prop := h.ItemProp()
	scope, err := h.ItemScope()
	if err != nil {
		return nil, err
	}
	if !scope && prop.Length() == 0 {
		return nil, nil
	}
	m := &Microdata{Scope: scope, ID: h.ItemID()}
	for _, f := range []struct {
		dst  *[]string
		list native.TokenList
	}{
		{&m.Type, h.ItemType()},
		{&m.Ref, h.ItemRef()},
		{&m.Prop, prop},
	} {
		items, err := f.list.Items()
		if err != nil {
			return nil, err
		}
		*f.dst = nonEmpty(items)
	}
	// An item that is also a property has itself as value.
	if v, ok := h.ItemValue().Get(); ok {
		if _, isObject := native.Wrap(h.Native().Runtime(), v); !isObject {
			m.Value = v.String()
		}
	}
	return m, nil
}

func box(h dom.HTMLElement) *Box {
	parent, ok := h.OffsetParent().Get()
	b := &Box{
		Top:    h.OffsetTop(),
		Left:   h.OffsetLeft(),
		Width:  h.OffsetWidth(),
		Height: h.OffsetHeight(),
	}
	if ok {
		b.Parent = Describe(parent)
	}
	if !ok && *b == (Box{}) {
		return nil
	}
	return b
}

func nonEmpty(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	return items
}

// Describe renders el as a short selector-like label, e.g. "div#main.wide".
func Describe(el dom.Element) string {
	var sb strings.Builder
	sb.WriteString(el.LocalName())
	if id := el.ID(); id != "" {
		sb.WriteString("#")
		sb.WriteString(id)
	}
	for _, c := range strings.Fields(el.ClassName()) {
		sb.WriteString(".")
		sb.WriteString(c)
	}
	return sb.String()
}

// Path is the chain of element labels from the root element down to el.
func Path(el dom.Element) string {
	parts := []string{Describe(el)}
	for p, ok := el.ParentElement().Get(); ok; p, ok = p.ParentElement().Get() {
		parts = append(parts, Describe(p))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}
