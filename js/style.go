package js

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/net/html"
)

// styleDeclaration is an element's inline style. The style attribute is the
// single source of truth: every read re-parses it and every write
// serialises back into it, so setAttribute("style", ...) and el.style never
// disagree.
type styleDeclaration struct {
	b      *DOMBinder
	n      *html.Node
	props  map[string]*styleProperty
	order  []string
	extras map[string]goja.Value
}

// styleProperty holds a single CSS property's value and priority.
type styleProperty struct {
	value    string
	priority string // "important" or ""
}

func newStyleDeclaration(b *DOMBinder, n *html.Node) *styleDeclaration {
	return &styleDeclaration{b: b, n: n, extras: make(map[string]goja.Value)}
}

func (sd *styleDeclaration) load() {
	sd.props = make(map[string]*styleProperty)
	sd.order = nil
	if v, ok := getAttr(sd.n, "style"); ok {
		sd.parse(v)
	}
}

func (sd *styleDeclaration) store() {
	text := sd.cssText()
	if text == "" {
		removeAttr(sd.n, "style")
		return
	}
	setAttr(sd.n, "style", text)
}

func (sd *styleDeclaration) cssText() string {
	parts := make([]string, 0, len(sd.order))
	for _, name := range sd.order {
		p := sd.props[name]
		part := name + ": " + p.value
		if p.priority == "important" {
			part += " !important"
		}
		parts = append(parts, part+";")
	}
	return strings.Join(parts, " ")
}

func (sd *styleDeclaration) propertyValue(name string) string {
	sd.load()
	if p, ok := sd.props[cssPropertyName(name)]; ok {
		return p.value
	}
	return ""
}

func (sd *styleDeclaration) propertyPriority(name string) string {
	sd.load()
	if p, ok := sd.props[cssPropertyName(name)]; ok {
		return p.priority
	}
	return ""
}

// setProperty follows CSSStyleDeclaration.setProperty: an empty value
// removes the property and an unknown priority is ignored.
func (sd *styleDeclaration) setProperty(name, value, priority string) {
	name = cssPropertyName(name)
	if name == "" {
		return
	}
	if value == "" {
		sd.removeProperty(name)
		return
	}
	priority = strings.ToLower(priority)
	if priority != "" && priority != "important" {
		return
	}

	sd.load()
	if _, exists := sd.props[name]; !exists {
		sd.order = append(sd.order, name)
	}
	sd.props[name] = &styleProperty{value: value, priority: priority}
	sd.store()
}

func (sd *styleDeclaration) removeProperty(name string) string {
	name = cssPropertyName(name)
	sd.load()
	p, ok := sd.props[name]
	if !ok {
		return ""
	}
	delete(sd.props, name)
	for i, o := range sd.order {
		if o == name {
			sd.order = append(sd.order[:i], sd.order[i+1:]...)
			break
		}
	}
	sd.store()
	return p.value
}

func (sd *styleDeclaration) setCSSText(text string) {
	sd.props = make(map[string]*styleProperty)
	sd.order = nil
	sd.parse(text)
	sd.store()
}

// parse reads "name: value [!important]" declarations separated by
// semicolons. Malformed declarations are skipped.
func (sd *styleDeclaration) parse(text string) {
	for _, part := range strings.Split(text, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = cssPropertyName(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}

		priority := ""
		if i := strings.LastIndex(value, "!"); i >= 0 && strings.EqualFold(strings.TrimSpace(value[i+1:]), "important") {
			priority = "important"
			value = strings.TrimSpace(value[:i])
		}

		if _, exists := sd.props[name]; !exists {
			sd.order = append(sd.order, name)
		}
		sd.props[name] = &styleProperty{value: value, priority: priority}
	}
}

// goja.DynamicObject

func (sd *styleDeclaration) Get(key string) goja.Value {
	vm := sd.b.runtime.vm
	switch key {
	case "cssText":
		sd.load()
		return vm.ToValue(sd.cssText())
	case "length":
		sd.load()
		return vm.ToValue(len(sd.order))
	case "parentRule":
		return goja.Null()
	case "item":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			sd.load()
			i := int(call.Argument(0).ToInteger())
			if i < 0 || i >= len(sd.order) {
				return vm.ToValue("")
			}
			return vm.ToValue(sd.order[i])
		})
	case "getPropertyValue":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(sd.propertyValue(call.Argument(0).String()))
		})
	case "getPropertyPriority":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(sd.propertyPriority(call.Argument(0).String()))
		})
	case "setProperty":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			priority := ""
			if p := call.Argument(2); !goja.IsUndefined(p) && !goja.IsNull(p) {
				priority = p.String()
			}
			value := ""
			if v := call.Argument(1); !goja.IsNull(v) && !goja.IsUndefined(v) {
				value = v.String()
			}
			sd.setProperty(call.Argument(0).String(), value, priority)
			return goja.Undefined()
		})
	case "removeProperty":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(sd.removeProperty(call.Argument(0).String()))
		})
	}

	if v, ok := sd.extras[key]; ok {
		return v
	}
	if i, err := strconv.Atoi(key); err == nil {
		sd.load()
		if i >= 0 && i < len(sd.order) {
			return vm.ToValue(sd.order[i])
		}
		return nil
	}
	if sd.isStyleKey(key) {
		return vm.ToValue(sd.propertyValue(key))
	}
	return nil
}

func (sd *styleDeclaration) Set(key string, val goja.Value) bool {
	switch key {
	case "cssText":
		sd.setCSSText(val.String())
		return true
	case "length", "parentRule":
		return false
	}
	if sd.isStyleKey(key) {
		value := ""
		if !goja.IsNull(val) && !goja.IsUndefined(val) {
			value = val.String()
		}
		sd.setProperty(key, value, "")
		return true
	}
	sd.extras[key] = val
	return true
}

func (sd *styleDeclaration) Has(key string) bool {
	if _, ok := sd.extras[key]; ok {
		return true
	}
	switch key {
	case "cssText", "length":
		return true
	}
	sd.load()
	_, ok := sd.props[cssPropertyName(key)]
	return ok
}

func (sd *styleDeclaration) Delete(key string) bool {
	delete(sd.extras, key)
	return true
}

func (sd *styleDeclaration) Keys() []string {
	sd.load()
	keys := make([]string, 0, len(sd.order))
	for _, name := range sd.order {
		keys = append(keys, camelCasePropertyName(name))
	}
	return keys
}

// isStyleKey reports whether key names a CSS property rather than an
// inherited Object member such as toString.
func (sd *styleDeclaration) isStyleKey(key string) bool {
	if !cssPropertyPattern.MatchString(key) {
		return false
	}
	objectProto := sd.b.runtime.vm.Get("Object").ToObject(sd.b.runtime.vm).Get("prototype").ToObject(sd.b.runtime.vm)
	return objectProto.Get(key) == nil
}

// style returns the element's cached style object.
func (b *DOMBinder) style(n *html.Node) *goja.Object {
	st := b.stateOf(n)
	if st.style == nil {
		st.style = b.runtime.vm.NewDynamicObject(newStyleDeclaration(b, n))
		_ = st.style.SetPrototype(b.styleProto)
	}
	return st.style
}

// inlineStyle reads one property from n's style attribute.
func inlineStyle(n *html.Node, name string) string {
	sd := &styleDeclaration{n: n}
	sd.load()
	if p, ok := sd.props[name]; ok {
		return p.value
	}
	return ""
}

var cssPropertyPattern = regexp.MustCompile(`^-?[a-zA-Z][a-zA-Z0-9-]*$`)

// cssPropertyName converts camelCase to kebab-case and lowercases, so
// "backgroundColor" becomes "background-color" and "WebkitTransform"
// becomes "-webkit-transform". Custom properties keep their case.
func cssPropertyName(name string) string {
	if name == "" || strings.HasPrefix(name, "--") {
		return name
	}
	if strings.Contains(name, "-") {
		return strings.ToLower(name)
	}

	var sb strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 || r == 'W' || r == 'M' {
				sb.WriteByte('-')
			}
			sb.WriteByte(byte(r - 'A' + 'a'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// camelCasePropertyName converts kebab-case to camelCase.
func camelCasePropertyName(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	parts := strings.Split(strings.TrimPrefix(name, "-"), "-")
	var sb strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 && !strings.HasPrefix(name, "-") {
			sb.WriteString(part)
			continue
		}
		sb.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return sb.String()
}
