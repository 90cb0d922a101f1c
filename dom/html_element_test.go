package dom

import (
	"errors"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/typeddom/enum"
	"github.com/chrisuehlinger/typeddom/js"
	"github.com/chrisuehlinger/typeddom/native"
)

func TestHTMLElementSurface(t *testing.T) {
	_, doc := newDocument(t, "")
	el := mustCreate(t, doc, "strong")
	el2 := mustCreate(t, doc, "small")

	assert.Equal(t, "", el.AccessKey())
	require.NoError(t, el.SetAccessKey(""))
	assert.Equal(t, "", el.AccessKeyLabel())

	editable, err := el.ContentEditable()
	require.NoError(t, err)
	assert.Equal(t, enum.EditableInherit, editable)
	require.NoError(t, el.SetContentEditable(enum.EditableInherit))
	assert.False(t, el.IsContentEditable())

	assert.False(t, el.ContextMenu().IsPresent())
	require.NoError(t, el.SetContextMenu(native.Some(el2.Element)))
	menu, ok := el.ContextMenu().Get()
	require.True(t, ok)
	assert.True(t, menu.Same(el2))

	assert.Empty(t, el.Dataset().Keys())

	dir, err := el.Dir()
	require.NoError(t, err)
	assert.Equal(t, enum.DirInherit, dir)
	require.NoError(t, el.SetDir(enum.DirRTL))
	dir, err = el.Dir()
	require.NoError(t, err)
	assert.Equal(t, enum.DirRTL, dir)

	draggable, err := el.Draggable()
	require.NoError(t, err)
	assert.False(t, draggable)
	require.NoError(t, el.SetDraggable(true))
	draggable, err = el.Draggable()
	require.NoError(t, err)
	assert.True(t, draggable)

	assert.Equal(t, "", el.Dropzone())

	hidden, err := el.Hidden()
	require.NoError(t, err)
	assert.False(t, hidden)
	require.NoError(t, el.SetHidden(true))
	hidden, err = el.Hidden()
	require.NoError(t, err)
	assert.True(t, hidden)

	scope, err := el.ItemScope()
	require.NoError(t, err)
	assert.False(t, scope)
	require.NoError(t, el.SetItemScope(true))
	scope, err = el.ItemScope()
	require.NoError(t, err)
	assert.True(t, scope)

	assert.Equal(t, 0, el.ItemType().Length())
	assert.Equal(t, "", el.ItemID())
	require.NoError(t, el.SetItemID("my-id"))
	assert.Equal(t, "my-id", el.ItemID())
	assert.Equal(t, 0, el.ItemRef().Length())
	assert.Equal(t, 0, el.ItemProp().Length())

	assert.False(t, el.ItemValue().IsPresent())
	err = el.SetItemValue(map[string]any{})
	var exc *goja.Exception
	require.True(t, errors.As(err, &exc))
	assert.Contains(t, err.Error(), "InvalidAccessError")

	assert.Equal(t, "", el.Lang())
	require.NoError(t, el.SetLang("en"))
	assert.Equal(t, "en", el.Lang())

	assert.Zero(t, el.OffsetHeight())
	assert.Zero(t, el.OffsetLeft())
	assert.Zero(t, el.OffsetTop())
	assert.Zero(t, el.OffsetWidth())
	assert.False(t, el.OffsetParent().IsPresent())

	spellcheck, err := el.Spellcheck()
	require.NoError(t, err)
	assert.True(t, spellcheck)
	require.NoError(t, el.SetSpellcheck(true))

	assert.Equal(t, "", el.Style().CSSText())

	assert.Equal(t, -1, el.TabIndex())
	require.NoError(t, el.SetTabIndex(42))
	assert.Equal(t, 42, el.TabIndex())

	assert.Equal(t, "", el.Title())
	require.NoError(t, el.SetTitle("hovertext!"))
	assert.Equal(t, "hovertext!", el.Title())

	translate, err := el.Translate()
	require.NoError(t, err)
	assert.True(t, translate)
	require.NoError(t, el.SetTranslate(true))

	assert.NoError(t, el.Blur())
	assert.NoError(t, el.Click())
	assert.NoError(t, el.Focus())
	assert.NoError(t, el.ForceSpellCheck())
}

func TestContentEditableInheritance(t *testing.T) {
	_, doc := newDocument(t, `<section id="doc" contenteditable="true"><p id="para">text</p></section>`)
	section := mustFind(t, doc, "doc")
	para := mustFind(t, doc, "para")

	require.NoError(t, para.SetContentEditable(enum.EditableInherit))
	assert.True(t, para.IsContentEditable())

	require.NoError(t, section.SetContentEditable(enum.EditableFalse))
	assert.False(t, para.IsContentEditable())

	require.NoError(t, para.SetContentEditable(enum.EditablePlaintextOnly))
	assert.True(t, para.IsContentEditable())
	state, err := para.ContentEditable()
	require.NoError(t, err)
	assert.Equal(t, enum.EditablePlaintextOnly, state)

	require.NoError(t, section.SetContentEditable(enum.EditableInherit))
	state, err = section.ContentEditable()
	require.NoError(t, err)
	assert.Equal(t, enum.EditableInherit, state)
}

func TestSpellcheckState(t *testing.T) {
	_, doc := newDocument(t, "")
	el := mustCreate(t, doc, "textarea")

	state, err := el.SpellcheckState()
	require.NoError(t, err)
	assert.Equal(t, enum.TristateDefault, state)

	require.NoError(t, el.SetSpellcheckState(enum.TristateFalse))
	state, err = el.SpellcheckState()
	require.NoError(t, err)
	assert.Equal(t, enum.TristateFalse, state)
	on, err := el.Spellcheck()
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, el.SetAttribute("spellcheck", ""))
	state, err = el.SpellcheckState()
	require.NoError(t, err)
	assert.Equal(t, enum.TristateTrue, state)

	require.NoError(t, el.SetSpellcheckState(enum.TristateDefault))
	has, err := el.HasAttribute("spellcheck")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, el.SetAttribute("spellcheck", "sometimes"))
	_, err = el.SpellcheckState()
	assert.ErrorIs(t, err, enum.ErrUnrecognizedEncoding)
}

func TestDataset(t *testing.T) {
	_, doc := newDocument(t, `<div id="card" data-user-id="7" data-theme="dark"></div>`)
	card := mustFind(t, doc, "card")
	ds := card.Dataset()

	id, ok := ds.Get("userId").Get()
	require.True(t, ok)
	assert.Equal(t, "7", id)
	assert.False(t, ds.Get("missing").IsPresent())
	assert.Equal(t, []string{"theme", "userId"}, ds.Keys())

	require.NoError(t, ds.Set("lastSeen", "today"))
	v, err := card.Attribute("data-last-seen")
	require.NoError(t, err)
	assert.Equal(t, "today", v.String)

	require.NoError(t, ds.Delete("theme"))
	assert.False(t, ds.Get("theme").IsPresent())

	assert.Error(t, ds.Set("not-camel", "x"))
}

func TestStyle(t *testing.T) {
	_, doc := newDocument(t, `<p id="p" style="color: red"></p>`)
	style := mustFind(t, doc, "p").Style()

	assert.Equal(t, 1, style.Length())
	color, err := style.PropertyValue("color")
	require.NoError(t, err)
	assert.Equal(t, "red", color)

	require.NoError(t, style.SetProperty("font-weight", "bold", "important"))
	priority, err := style.PropertyPriority("font-weight")
	require.NoError(t, err)
	assert.Equal(t, "important", priority)
	name, err := style.Item(1)
	require.NoError(t, err)
	assert.Equal(t, "font-weight", name)

	old, err := style.RemoveProperty("color")
	require.NoError(t, err)
	assert.Equal(t, "red", old)
	assert.Equal(t, "font-weight: bold !important;", style.CSSText())

	require.NoError(t, style.SetCSSText("margin: 0"))
	assert.Equal(t, "margin: 0;", style.CSSText())
}

func TestItemValue(t *testing.T) {
	_, doc := newDocument(t, `<a id="link" itemprop="url" href="/x">x</a><div id="scope" itemprop="p" itemscope></div>`)

	link := mustFind(t, doc, "link")
	v, ok := link.ItemValue().Get()
	require.True(t, ok)
	assert.Equal(t, "/x", v.String())
	require.NoError(t, link.SetItemValue("/y"))
	href, err := link.Attribute("href")
	require.NoError(t, err)
	assert.Equal(t, "/y", href.String)

	scope := mustFind(t, doc, "scope")
	v, ok = scope.ItemValue().Get()
	require.True(t, ok)
	obj, ok := native.Wrap(scope.Native().Runtime(), v)
	require.True(t, ok)
	assert.True(t, scope.Same(obj))
	assert.Error(t, scope.SetItemValue("z"))
}

func TestOffsetsFromHostGeometry(t *testing.T) {
	rt, doc := newDocument(t, `<body><div id="box"></div></body>`)
	box := mustFind(t, doc, "box")

	node, ok := rt.NodeOf(box.Native().JS())
	require.True(t, ok)
	rt.Document().SetGeometry(node, js.Geometry{Top: 8, Left: 4, Width: 100, Height: 20})

	assert.Equal(t, 8, box.OffsetTop())
	assert.Equal(t, 4, box.OffsetLeft())
	assert.Equal(t, 100, box.OffsetWidth())
	assert.Equal(t, 20, box.OffsetHeight())
	parent, ok := box.OffsetParent().Get()
	require.True(t, ok)
	assert.Equal(t, "BODY", parent.TagName())
}

func TestFocusAndClick(t *testing.T) {
	rt, doc := newDocument(t, `<button id="go">Go</button>`)
	button := mustFind(t, doc, "go")

	var events []string
	for _, typ := range []string{"focus", "blur", "click"} {
		_, err := button.AddEventListener(typ, func(ev native.Event) {
			events = append(events, ev.Type())
		}, ListenerOptions{})
		require.NoError(t, err)
	}

	require.NoError(t, button.Focus())
	active, ok := doc.ActiveElement().Get()
	require.True(t, ok)
	assert.True(t, active.Same(button))

	require.NoError(t, button.Click())
	require.NoError(t, button.Blur())
	assert.Equal(t, []string{"focus", "click", "blur"}, events)
	assert.Empty(t, rt.Errors())
}

func TestAccessKeyLabelUsesHostModifiers(t *testing.T) {
	rt := js.NewRuntime(js.Options{AccessKeyModifiers: "Ctrl+Alt"})
	doc, ok := GlobalDocument(rt.VM()).Get()
	require.True(t, ok)
	el := mustCreate(t, doc, "button")

	require.NoError(t, el.SetAccessKey("k"))
	assert.Equal(t, "Ctrl+Alt+K", el.AccessKeyLabel())
}
