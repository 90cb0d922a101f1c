package js

import (
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/net/html"
)

// dataset is the DOMStringMap exposed as element.dataset: a live view of
// the element's data-* attributes under camelCase keys.
type dataset struct {
	b *DOMBinder
	n *html.Node
}

// datasetKey converts an attribute name such as "data-foo-bar" to "fooBar".
// It reports false for attributes that are not part of the dataset.
func datasetKey(attr string) (string, bool) {
	rest, ok := strings.CutPrefix(attr, "data-")
	if !ok {
		return "", false
	}
	var sb strings.Builder
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if c == '-' && i+1 < len(rest) && rest[i+1] >= 'a' && rest[i+1] <= 'z' {
			sb.WriteByte(rest[i+1] - 'a' + 'A')
			i++
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String(), true
}

// datasetAttr converts a dataset key such as "fooBar" to "data-foo-bar".
// Keys with a hyphen followed by a lowercase letter have no attribute form.
func datasetAttr(key string) (string, bool) {
	var sb strings.Builder
	sb.WriteString("data-")
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '-' && i+1 < len(key) && key[i+1] >= 'a' && key[i+1] <= 'z' {
			return "", false
		}
		if c >= 'A' && c <= 'Z' {
			sb.WriteByte('-')
			sb.WriteByte(c - 'A' + 'a')
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String(), true
}

func (ds *dataset) lookup(key string) (string, bool) {
	for _, a := range ds.n.Attr {
		if k, ok := datasetKey(a.Key); ok && k == key {
			return a.Val, true
		}
	}
	return "", false
}

// goja.DynamicObject

func (ds *dataset) Get(key string) goja.Value {
	if v, ok := ds.lookup(key); ok {
		return ds.b.runtime.vm.ToValue(v)
	}
	return nil
}

func (ds *dataset) Set(key string, val goja.Value) bool {
	attr, ok := datasetAttr(key)
	if !ok {
		ds.b.throw(errSyntax("'" + key + "' is not a valid property name."))
	}
	if !validAttrName(attr) {
		ds.b.throw(errInvalidCharacter("'" + attr + "' is not a valid attribute name."))
	}
	setAttr(ds.n, attr, val.String())
	return true
}

func (ds *dataset) Has(key string) bool {
	_, ok := ds.lookup(key)
	return ok
}

func (ds *dataset) Delete(key string) bool {
	attr, ok := datasetAttr(key)
	if ok {
		removeAttr(ds.n, attr)
	}
	return true
}

func (ds *dataset) Keys() []string {
	var keys []string
	for _, a := range ds.n.Attr {
		if k, ok := datasetKey(a.Key); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func (b *DOMBinder) dataset(n *html.Node) *goja.Object {
	st := b.stateOf(n)
	if st.dataset == nil {
		st.dataset = b.runtime.vm.NewDynamicObject(&dataset{b: b, n: n})
	}
	return st.dataset
}
