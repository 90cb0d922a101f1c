package dom

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/typeddom/js"
)

// newDocument loads markup into a fresh host and returns its document.
func newDocument(t *testing.T, markup string) (*js.Runtime, Document) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	rt := js.NewRuntime(js.Options{Logger: logger})
	if markup != "" {
		require.NoError(t, rt.LoadHTML(strings.NewReader(markup)))
	}
	doc, ok := GlobalDocument(rt.VM()).Get()
	require.True(t, ok)
	return rt, doc
}

func mustCreate(t *testing.T, doc Document, tag string) HTMLElement {
	t.Helper()
	el, err := doc.CreateElement(tag)
	require.NoError(t, err)
	h, ok := AsHTMLElement(el).Get()
	require.True(t, ok, "%s is not an HTMLElement", tag)
	return h
}

func mustFind(t *testing.T, doc Document, id string) HTMLElement {
	t.Helper()
	found, err := doc.GetElementByID(id)
	require.NoError(t, err)
	el, ok := found.Get()
	require.True(t, ok, "no element #%s", id)
	h, ok := AsHTMLElement(el).Get()
	require.True(t, ok)
	return h
}
