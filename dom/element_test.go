package dom

import (
	"errors"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/chrisuehlinger/typeddom/js"
	"github.com/chrisuehlinger/typeddom/native"
)

const page = `<!DOCTYPE html><html><head><title>Page</title></head><body>
<ul id="list" class="menu open"><li class="item">one</li><li class="item">two</li></ul>
<svg id="icon"></svg>
</body></html>`

func TestNarrowing(t *testing.T) {
	rt, doc := newDocument(t, page)

	el, err := doc.CreateElement("strong")
	require.NoError(t, err)
	assert.True(t, AsElement(el.Native()).IsPresent())
	assert.True(t, AsHTMLElement(el).IsPresent())

	svg, err := doc.CreateElementNS(null.StringFrom(js.SVGNamespace), "circle")
	require.NoError(t, err)
	assert.True(t, AsElement(svg.Native()).IsPresent())
	assert.False(t, AsHTMLElement(svg).IsPresent())

	bare, err := doc.CreateElementNS(null.String{}, "thing")
	require.NoError(t, err)
	assert.False(t, bare.NamespaceURI().Valid)
	assert.False(t, AsHTMLElement(bare).IsPresent())

	found, err := doc.GetElementByID("icon")
	require.NoError(t, err)
	icon, ok := found.Get()
	require.True(t, ok)
	assert.False(t, AsHTMLElement(icon).IsPresent())

	plain, ok := native.Wrap(rt.VM(), rt.VM().NewObject())
	require.True(t, ok)
	assert.False(t, AsElement(plain).IsPresent())

	text, err := rt.Execute(`document.createTextNode('x')`)
	require.NoError(t, err)
	textObj, ok := native.Wrap(rt.VM(), text)
	require.True(t, ok)
	assert.False(t, AsElement(textObj).IsPresent())
}

func TestNarrowingWithoutHostInterfaces(t *testing.T) {
	vm := goja.New()
	o, ok := native.Wrap(vm, vm.NewObject())
	require.True(t, ok)
	assert.False(t, AsElement(o).IsPresent())
	assert.False(t, AsHTMLElement(ElementOf(o)).IsPresent())
	assert.False(t, GlobalDocument(vm).IsPresent())
}

func TestElementNames(t *testing.T) {
	_, doc := newDocument(t, "")

	el := mustCreate(t, doc, "small")
	assert.Equal(t, "SMALL", el.TagName())
	assert.Equal(t, "small", el.LocalName())
	assert.Equal(t, null.StringFrom(js.HTMLNamespace), el.NamespaceURI())
	assert.False(t, el.Prefix().Valid)

	ns, err := doc.CreateElementNS(null.StringFrom("urn:example"), "ex:item")
	require.NoError(t, err)
	assert.Equal(t, "item", ns.LocalName())
	assert.Equal(t, "ex", ns.Prefix().String)
	assert.Equal(t, "urn:example", ns.NamespaceURI().String)

	_, err = doc.CreateElement("no good")
	var exc *goja.Exception
	require.ErrorAs(t, err, &exc)
	assert.Contains(t, err.Error(), "InvalidCharacterError")
}

func TestElementAttributes(t *testing.T) {
	_, doc := newDocument(t, page)
	list := mustFind(t, doc, "list")

	assert.Equal(t, "list", list.ID())
	assert.Equal(t, "menu open", list.ClassName())

	v, err := list.Attribute("class")
	require.NoError(t, err)
	assert.Equal(t, null.StringFrom("menu open"), v)

	v, err = list.Attribute("missing")
	require.NoError(t, err)
	assert.False(t, v.Valid)

	require.NoError(t, list.SetAttribute("role", "menu"))
	has, err := list.HasAttribute("role")
	require.NoError(t, err)
	assert.True(t, has)

	names, err := list.AttributeNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "class", "role"}, names)

	require.NoError(t, list.RemoveAttribute("role"))
	has, err = list.HasAttribute("role")
	require.NoError(t, err)
	assert.False(t, has)

	on, err := list.ToggleAttribute("hidden")
	require.NoError(t, err)
	assert.True(t, on)
	on, err = list.ForceAttribute("hidden", false)
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, list.SetID("nav"))
	require.NoError(t, list.SetClassName("menu"))
	nav, err := doc.GetElementByID("nav")
	require.NoError(t, err)
	assert.True(t, nav.IsPresent())
	assert.Equal(t, "menu", list.ClassName())

	err = list.SetAttribute("bad name", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InvalidCharacterError")
}

func TestClassList(t *testing.T) {
	_, doc := newDocument(t, page)
	classes := mustFind(t, doc, "list").ClassList()

	items, err := classes.Items()
	require.NoError(t, err)
	assert.Equal(t, []string{"menu", "open"}, items)
	assert.Equal(t, 2, classes.Length())

	require.NoError(t, classes.Add("wide"))
	ok, err := classes.Contains("wide")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, classes.Remove("open"))
	assert.Equal(t, "menu wide", classes.Value())

	on, err := classes.Toggle("menu")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, "wide", classes.Value())

	assert.Error(t, classes.Add(""))
}

func TestTree(t *testing.T) {
	_, doc := newDocument(t, page)
	list := mustFind(t, doc, "list")

	children := list.Children()
	require.Len(t, children, 2)
	assert.Equal(t, 2, list.ChildElementCount())
	assert.Equal(t, "one", children[0].TextContent())

	first, ok := list.FirstElementChild().Get()
	require.True(t, ok)
	assert.True(t, first.Same(children[0]))
	last, ok := list.LastElementChild().Get()
	require.True(t, ok)
	assert.True(t, last.Same(children[1]))

	body, ok := doc.Body().Get()
	require.True(t, ok)
	parent, ok := list.ParentElement().Get()
	require.True(t, ok)
	assert.True(t, parent.Same(body))

	li := mustCreate(t, doc, "li")
	assert.False(t, li.IsConnected())
	assert.False(t, li.ParentElement().IsPresent())
	require.NoError(t, li.SetTextContent("three"))
	require.NoError(t, list.AppendChild(li))
	assert.True(t, li.IsConnected())
	assert.Equal(t, 3, list.ChildElementCount())

	err := li.AppendChild(list)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HierarchyRequestError")

	require.NoError(t, li.Remove())
	assert.False(t, li.IsConnected())
	assert.Equal(t, 2, list.ChildElementCount())
}

func TestContent(t *testing.T) {
	_, doc := newDocument(t, page)
	list := mustFind(t, doc, "list")

	assert.Equal(t, `<li class="item">one</li><li class="item">two</li>`, list.InnerHTML())
	require.NoError(t, list.SetInnerHTML(`<li>only</li>`))
	assert.Equal(t, `<ul id="list" class="menu open"><li>only</li></ul>`, list.OuterHTML())
	assert.Equal(t, "only", list.TextContent())
	assert.Equal(t, "Page", doc.Title())
}

func TestSelectors(t *testing.T) {
	_, doc := newDocument(t, page)
	list := mustFind(t, doc, "list")

	items, err := list.QuerySelectorAll("li.item")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	second, err := list.QuerySelector("li:nth-child(2)")
	require.NoError(t, err)
	li, ok := second.Get()
	require.True(t, ok)
	assert.Equal(t, "two", li.TextContent())

	none, err := list.QuerySelector("p")
	require.NoError(t, err)
	assert.False(t, none.IsPresent())

	matches, err := li.Matches("ul > li")
	require.NoError(t, err)
	assert.True(t, matches)

	closest, err := li.Closest("#list")
	require.NoError(t, err)
	got, ok := closest.Get()
	require.True(t, ok)
	assert.True(t, got.Same(list))

	_, err = list.QuerySelector("li[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SyntaxError")

	all, err := doc.QuerySelectorAll("li")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	fromDoc, err := doc.QuerySelector("#list")
	require.NoError(t, err)
	assert.True(t, fromDoc.IsPresent())
}

func TestDocumentAccessors(t *testing.T) {
	rt, doc := newDocument(t, page)

	html, ok := doc.DocumentElement().Get()
	require.True(t, ok)
	assert.Equal(t, "HTML", html.TagName())

	head, ok := doc.Head().Get()
	require.True(t, ok)
	assert.Equal(t, "HEAD", head.TagName())

	active, ok := doc.ActiveElement().Get()
	require.True(t, ok)
	assert.Equal(t, "BODY", active.TagName())

	assert.Equal(t, "about:blank", doc.URL())
	nope, err := doc.GetElementByID("nope")
	require.NoError(t, err)
	assert.False(t, nope.IsPresent())
	assert.True(t, doc.Native().Same(GlobalDocument(rt.VM()).OrElse(Document{}).Native()))
}

func TestEvents(t *testing.T) {
	rt, doc := newDocument(t, page)
	list := mustFind(t, doc, "list")
	li, ok := list.FirstElementChild().Get()
	require.True(t, ok)

	var seen []string
	l, err := list.AddEventListener("pick", func(ev native.Event) {
		target, _ := ev.Target().Get()
		seen = append(seen, ElementOf(target).TextContent())
		require.NoError(t, ev.PreventDefault())
	}, ListenerOptions{})
	require.NoError(t, err)

	ev, err := native.NewEvent(rt.VM(), "pick", native.EventInit{Bubbles: true, Cancelable: true})
	require.NoError(t, err)
	notCancelled, err := li.DispatchEvent(ev)
	require.NoError(t, err)
	assert.False(t, notCancelled)
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, []string{"one"}, seen)

	require.NoError(t, list.RemoveEventListener("pick", l))
	ev, err = native.NewEvent(rt.VM(), "pick", native.EventInit{Bubbles: true})
	require.NoError(t, err)
	notCancelled, err = li.DispatchEvent(ev)
	require.NoError(t, err)
	assert.True(t, notCancelled)
	assert.Len(t, seen, 1)

	var detail any
	_, err = doc.AddEventListener("note", func(ev native.Event) {
		if v, ok := ev.Detail().Get(); ok {
			detail = v.Export()
		}
	}, ListenerOptions{Once: true})
	require.NoError(t, err)
	ev, err = native.NewEvent(rt.VM(), "note", native.EventInit{Bubbles: true, Detail: "hello"})
	require.NoError(t, err)
	_, err = li.DispatchEvent(ev)
	require.NoError(t, err)
	assert.Equal(t, "hello", detail)
}

func TestCreateEvent(t *testing.T) {
	_, doc := newDocument(t, page)
	list := mustFind(t, doc, "list")

	ev, err := doc.CreateEvent("Event")
	require.NoError(t, err)
	assert.True(t, native.AsEvent(ev.Native()).IsPresent())

	_, err = list.DispatchEvent(ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InvalidStateError")

	require.NoError(t, ev.InitEvent("ready", false, false))
	ok, err := list.DispatchEvent(ev)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ready", ev.Type())

	_, err = doc.CreateEvent("my-event")
	var exc *goja.Exception
	require.True(t, errors.As(err, &exc))
	assert.Contains(t, err.Error(), "NotSupportedError")
}

func TestHostFailures(t *testing.T) {
	vm := goja.New()
	v, err := vm.RunString(`({
		getElementById(id) { throw new TypeError("lookup of " + id + " failed") },
		createElement() { return 7 },
		createEvent() { return null },
	})`)
	require.NoError(t, err)
	o, ok := native.Wrap(vm, v)
	require.True(t, ok)
	doc := DocumentOf(o)

	found, err := doc.GetElementByID("main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup of main failed")
	assert.False(t, found.IsPresent())

	_, err = doc.CreateElement("div")
	assert.ErrorIs(t, err, native.ErrNoObject)
	_, err = doc.CreateEvent("Event")
	assert.ErrorIs(t, err, native.ErrNoObject)

	plain, ok := native.Wrap(vm, vm.NewObject())
	require.True(t, ok)
	el := ElementOf(plain)
	assert.Equal(t, 0, el.ClassList().Length())
	assert.ErrorIs(t, el.ClassList().Add("x"), native.ErrNoObject)
}
