package js

import (
	"strconv"
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/net/html"
)

// tokenList is a live DOMTokenList over one attribute of an element
// (class, itemprop, itemref, itemtype).
type tokenList struct {
	b    *DOMBinder
	n    *html.Node
	attr string
}

func (tl *tokenList) tokens() []string {
	v, _ := getAttr(tl.n, tl.attr)
	var out []string
	seen := make(map[string]bool)
	for _, tok := range strings.Fields(v) {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}

func (tl *tokenList) write(tokens []string) {
	setAttr(tl.n, tl.attr, strings.Join(tokens, " "))
}

func (tl *tokenList) check(tok string) {
	if tok == "" {
		tl.b.throw(errSyntax("The token provided must not be empty."))
	}
	if strings.ContainsAny(tok, " \t\n\f\r") {
		tl.b.throw(errInvalidCharacter("The token provided ('" + tok + "') contains HTML space characters, which are not valid in tokens."))
	}
}

func (tl *tokenList) contains(tok string) bool {
	for _, t := range tl.tokens() {
		if t == tok {
			return true
		}
	}
	return false
}

func (tl *tokenList) add(toks ...string) {
	for _, tok := range toks {
		tl.check(tok)
	}
	tokens := tl.tokens()
	for _, tok := range toks {
		if !containsString(tokens, tok) {
			tokens = append(tokens, tok)
		}
	}
	tl.write(tokens)
}

func (tl *tokenList) remove(toks ...string) {
	for _, tok := range toks {
		tl.check(tok)
	}
	tokens := tl.tokens()
	kept := tokens[:0]
	for _, t := range tokens {
		if !containsString(toks, t) {
			kept = append(kept, t)
		}
	}
	tl.write(kept)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// goja.DynamicObject

func (tl *tokenList) Get(key string) goja.Value {
	vm := tl.b.runtime.vm
	switch key {
	case "length":
		return vm.ToValue(len(tl.tokens()))
	case "value":
		v, _ := getAttr(tl.n, tl.attr)
		return vm.ToValue(v)
	case "item":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			tokens := tl.tokens()
			i := call.Argument(0).ToInteger()
			if i < 0 || i >= int64(len(tokens)) {
				return goja.Null()
			}
			return vm.ToValue(tokens[i])
		})
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(tl.contains(call.Argument(0).String()))
		})
	case "add":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			tl.add(argStrings(call)...)
			return goja.Undefined()
		})
	case "remove":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			tl.remove(argStrings(call)...)
			return goja.Undefined()
		})
	case "toggle":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			tok := call.Argument(0).String()
			tl.check(tok)
			has := tl.contains(tok)
			want := !has
			if f := call.Argument(1); !goja.IsUndefined(f) {
				want = f.ToBoolean()
			}
			switch {
			case want && !has:
				tl.add(tok)
			case !want && has:
				tl.remove(tok)
			}
			return vm.ToValue(want)
		})
	case "replace":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			old, repl := call.Argument(0).String(), call.Argument(1).String()
			tl.check(old)
			tl.check(repl)
			tokens := tl.tokens()
			found := false
			out := make([]string, 0, len(tokens))
			for _, t := range tokens {
				switch {
				case t == old && !found:
					found = true
					if !containsString(out, repl) {
						out = append(out, repl)
					}
				case t == repl || t == old:
				default:
					out = append(out, t)
				}
			}
			if found {
				tl.write(out)
			}
			return vm.ToValue(found)
		})
	case "toString":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			v, _ := getAttr(tl.n, tl.attr)
			return vm.ToValue(v)
		})
	}
	if i, err := strconv.Atoi(key); err == nil {
		tokens := tl.tokens()
		if i >= 0 && i < len(tokens) {
			return vm.ToValue(tokens[i])
		}
	}
	return nil
}

func (tl *tokenList) Set(key string, val goja.Value) bool {
	if key == "value" {
		setAttr(tl.n, tl.attr, val.String())
		return true
	}
	return false
}

func (tl *tokenList) Has(key string) bool {
	if key == "length" || key == "value" {
		return true
	}
	i, err := strconv.Atoi(key)
	return err == nil && i >= 0 && i < len(tl.tokens())
}

func (tl *tokenList) Delete(key string) bool {
	return false
}

func (tl *tokenList) Keys() []string {
	n := len(tl.tokens())
	keys := make([]string, n)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	return keys
}

func argStrings(call goja.FunctionCall) []string {
	out := make([]string, len(call.Arguments))
	for i, a := range call.Arguments {
		out[i] = a.String()
	}
	return out
}

// tokenList returns the cached DOMTokenList for attr on n.
func (b *DOMBinder) tokenList(n *html.Node, attr string) *goja.Object {
	st := b.stateOf(n)
	if st.tokenLists == nil {
		st.tokenLists = make(map[string]*goja.Object)
	}
	if obj, ok := st.tokenLists[attr]; ok {
		return obj
	}
	obj := b.runtime.vm.NewDynamicObject(&tokenList{b: b, n: n, attr: attr})
	_ = obj.SetPrototype(b.tokenListProto)
	st.tokenLists[attr] = obj
	return obj
}
