package probe

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// WriteYAML encodes r as a YAML document.
func WriteYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

// Palette colours the text rendering.
type Palette struct {
	Heading *color.Color
	Key     *color.Color
	Value   *color.Color
	Warn    *color.Color
}

// PlainPalette returns a palette that never emits escape codes.
func PlainPalette() Palette {
	plain := func() *color.Color {
		c := color.New()
		c.DisableColor()
		return c
	}
	return Palette{Heading: plain(), Key: plain(), Value: plain(), Warn: plain()}
}

// WriteText renders r for a terminal. Fields at their default value are
// left out.
func WriteText(w io.Writer, r *Report, p Palette) error {
	tw := &textWriter{w: w, p: p}
	tw.field(0, "url", r.URL)
	tw.field(0, "title", r.Title)
	tw.field(0, "selector", r.Selector)
	tw.linef(0, "%s", p.Value.Sprintf("%d element(s)", len(r.Elements)))
	for _, e := range r.Elements {
		tw.element(e)
	}
	if len(r.Skipped) > 0 {
		tw.linef(0, "%s %s", p.Warn.Sprint("skipped non-HTML:"), strings.Join(r.Skipped, ", "))
	}
	return tw.err
}

type textWriter struct {
	w   io.Writer
	p   Palette
	err error
}

func (t *textWriter) linef(indent int, format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, strings.Repeat("  ", indent)+format+"\n", args...)
}

func (t *textWriter) field(indent int, key string, value any) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return
		}
	case []string:
		if len(v) == 0 {
			return
		}
		value = strings.Join(v, " ")
	}
	t.linef(indent, "%s %s", t.p.Key.Sprint(key+":"), t.p.Value.Sprint(value))
}

func (t *textWriter) flag(indent int, key string, on, def bool) {
	if on != def {
		t.field(indent, key, on)
	}
}

func (t *textWriter) element(e Element) {
	t.linef(0, "%s", t.p.Heading.Sprint(e.Path))
	t.field(1, "title", e.Title)
	t.field(1, "lang", e.Lang)
	if e.Dir != "inherit" {
		t.field(1, "dir", e.Dir)
	}
	if e.ContentEditable != "inherit" {
		t.field(1, "contentEditable", e.ContentEditable)
	}
	t.flag(1, "isContentEditable", e.IsContentEditable, false)
	t.flag(1, "hidden", e.Hidden, false)
	t.flag(1, "draggable", e.Draggable, false)
	t.flag(1, "spellcheck", e.Spellcheck, true)
	t.flag(1, "translate", e.Translate, true)
	if e.TabIndex >= 0 {
		t.field(1, "tabIndex", e.TabIndex)
	}
	t.field(1, "accessKeyLabel", e.AccessKeyLabel)
	t.field(1, "contextMenu", e.ContextMenu)
	t.field(1, "style", e.Style)

	if len(e.Dataset) > 0 {
		t.linef(1, "%s", t.p.Key.Sprint("dataset:"))
		keys := make([]string, 0, len(e.Dataset))
		for k := range e.Dataset {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			t.field(2, k, e.Dataset[k])
		}
	}

	if m := e.Item; m != nil {
		t.linef(1, "%s", t.p.Key.Sprint("item:"))
		t.flag(2, "scope", m.Scope, false)
		t.field(2, "id", m.ID)
		t.field(2, "type", m.Type)
		t.field(2, "ref", m.Ref)
		t.field(2, "prop", m.Prop)
		t.field(2, "value", m.Value)
	}

	if b := e.Box; b != nil {
		t.field(1, "box", fmt.Sprintf("%dx%d at (%d, %d)", b.Width, b.Height, b.Left, b.Top))
		t.field(1, "offsetParent", b.Parent)
	}
}
