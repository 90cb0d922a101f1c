package probe

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/chrisuehlinger/typeddom/dom"
	"github.com/chrisuehlinger/typeddom/enum"
	"github.com/chrisuehlinger/typeddom/js"
	"github.com/chrisuehlinger/typeddom/native"
)

const catalog = `<!DOCTYPE html>
<html lang="en"><head><title>Catalog</title></head>
<body>
<main id="main" dir="ltr" contenteditable="true">
  <article id="book" class="card wide" itemscope itemtype="https://schema.org/Book" data-sku="B-1" style="color: red">
    <h2 itemprop="name" spellcheck="false">Go in Practice</h2>
    <a id="buy" href="/buy" itemprop="url" accesskey="b" draggable="false" translate="no">Buy</a>
  </article>
  <p id="note" hidden tabindex="3">Out of stock</p>
  <svg id="logo"></svg>
</main>
</body></html>`

func loadCatalog(t *testing.T) (*js.Runtime, dom.Document) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	rt := js.NewRuntime(js.Options{Logger: logger, URL: "file:///catalog.html"})
	require.NoError(t, rt.LoadHTML(strings.NewReader(catalog)))
	doc, ok := dom.GlobalDocument(rt.VM()).Get()
	require.True(t, ok)
	return rt, doc
}

func TestInspect(t *testing.T) {
	_, doc := loadCatalog(t)

	r, err := Inspect(doc, "main *")
	require.NoError(t, err)
	assert.Equal(t, "file:///catalog.html", r.URL)
	assert.Equal(t, "Catalog", r.Title)
	assert.Equal(t, []string{"svg#logo"}, r.Skipped)
	require.Len(t, r.Elements, 4)

	book := r.Elements[0]
	assert.Equal(t, "html > body > main#main > article#book.card.wide", book.Path)
	assert.Equal(t, []string{"card", "wide"}, book.Classes)
	assert.Equal(t, "inherit", book.Dir)
	assert.Equal(t, "inherit", book.ContentEditable)
	assert.True(t, book.IsContentEditable)
	assert.Equal(t, map[string]string{"sku": "B-1"}, book.Dataset)
	assert.Equal(t, "color: red;", book.Style)
	assert.Empty(t, book.Lang, "lang reflects the element's own attribute")
	require.NotNil(t, book.Item)
	assert.True(t, book.Item.Scope)
	assert.Equal(t, []string{"https://schema.org/Book"}, book.Item.Type)
	assert.Empty(t, book.Item.Value)
	assert.Equal(t, &Box{Parent: "body"}, book.Box)

	title := r.Elements[1]
	assert.False(t, title.Spellcheck)
	require.NotNil(t, title.Item)
	assert.Equal(t, []string{"name"}, title.Item.Prop)
	assert.Equal(t, "Go in Practice", title.Item.Value)

	buy := r.Elements[2]
	assert.Equal(t, "b", buy.AccessKey)
	assert.Equal(t, "Alt+Shift+B", buy.AccessKeyLabel)
	assert.False(t, buy.Draggable)
	assert.False(t, buy.Translate)
	assert.Equal(t, 0, buy.TabIndex)
	assert.Equal(t, "/buy", buy.Item.Value)

	note := r.Elements[3]
	assert.True(t, note.Hidden)
	assert.Equal(t, 3, note.TabIndex)
	assert.Nil(t, note.Item)
	assert.Nil(t, note.Box, "hidden elements have no box")
}

func TestInspectBox(t *testing.T) {
	rt, doc := loadCatalog(t)
	found, err := doc.GetElementByID("buy")
	require.NoError(t, err)
	buy, ok := found.Get()
	require.True(t, ok)
	found, err = doc.GetElementByID("book")
	require.NoError(t, err)
	book, ok := found.Get()
	require.True(t, ok)
	require.NoError(t, book.Native().Set("style", "position: relative"))

	n, ok := rt.NodeOf(buy.Native().JS())
	require.True(t, ok)
	p, ok := rt.NodeOf(book.Native().JS())
	require.True(t, ok)
	rt.Document().SetGeometry(p, js.Geometry{Top: 100, Left: 10, Width: 300, Height: 200})
	rt.Document().SetGeometry(n, js.Geometry{Top: 150, Left: 20, Width: 40, Height: 16})

	h, ok := dom.AsHTMLElement(buy).Get()
	require.True(t, ok)
	e, err := InspectElement(h)
	require.NoError(t, err)
	assert.Equal(t, &Box{Top: 50, Left: 10, Width: 40, Height: 16, Parent: "article#book.card.wide"}, e.Box)
}

func TestInspectBadSelector(t *testing.T) {
	_, doc := loadCatalog(t)
	_, err := Inspect(doc, "main[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `select "main["`)
	assert.Contains(t, err.Error(), "SyntaxError")
}

func TestInspectUnrecognizedEncoding(t *testing.T) {
	vm := goja.New()
	v, err := vm.RunString(`
		class Element {}
		class HTMLElement extends Element {}
		globalThis.Element = Element;
		globalThis.HTMLElement = HTMLElement;
		const el = new HTMLElement();
		el.localName = "div";
		el.dir = "sideways";
		el.style = { cssText: "" };
		el.classList = { length: 0 };
		el`)
	require.NoError(t, err)
	o, ok := native.Wrap(vm, v)
	require.True(t, ok)
	h, ok := dom.AsHTMLElement(dom.ElementOf(o)).Get()
	require.True(t, ok)

	_, err = InspectElement(h)
	assert.ErrorIs(t, err, enum.ErrUnrecognizedEncoding)
}

func TestWriteYAML(t *testing.T) {
	_, doc := loadCatalog(t)
	r, err := Inspect(doc, "#note")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, r))
	assert.Contains(t, buf.String(), "path: html > body > main#main > p#note\n")

	var back Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, *r, back)
}

func TestWriteText(t *testing.T) {
	_, doc := loadCatalog(t)
	r, err := Inspect(doc, "main *")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, r, PlainPalette()))
	out := buf.String()

	assert.Contains(t, out, "url: file:///catalog.html\n")
	assert.Contains(t, out, "4 element(s)\n")
	assert.Contains(t, out, "html > body > main#main > article#book.card.wide\n  isContentEditable: true\n")
	assert.Contains(t, out, "  dataset:\n    sku: B-1\n")
	assert.Contains(t, out, "  item:\n    scope: true\n    type: https://schema.org/Book\n")
	assert.Contains(t, out, "  spellcheck: false\n")
	assert.Contains(t, out, "  accessKeyLabel: Alt+Shift+B\n")
	assert.Contains(t, out, "  translate: false\n")
	assert.Contains(t, out, "  hidden: true\n  tabIndex: 3\n")
	assert.Contains(t, out, "skipped non-HTML: svg#logo\n")
	assert.NotContains(t, out, "\x1b[")
}
