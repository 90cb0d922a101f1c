package js

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// compileSelector throws SyntaxError for selectors cascadia cannot parse.
func (b *DOMBinder) compileSelector(selector string) cascadia.Selector {
	m, err := cascadia.Compile(selector)
	if err != nil {
		b.throw(errSyntax("'" + selector + "' is not a valid selector"))
	}
	return m
}

func (b *DOMBinder) querySelector(scope *html.Node, selector string) *html.Node {
	found := goquery.NewDocumentFromNode(scope).FindMatcher(b.compileSelector(selector))
	if found.Length() == 0 {
		return nil
	}
	return found.Get(0)
}

func (b *DOMBinder) querySelectorAll(scope *html.Node, selector string) []*html.Node {
	return goquery.NewDocumentFromNode(scope).FindMatcher(b.compileSelector(selector)).Nodes
}

func (b *DOMBinder) matches(n *html.Node, selector string) bool {
	return goquery.NewDocumentFromNode(n).IsMatcher(b.compileSelector(selector))
}

func (b *DOMBinder) closest(n *html.Node, selector string) *html.Node {
	found := goquery.NewDocumentFromNode(n).ClosestMatcher(b.compileSelector(selector))
	if found.Length() == 0 {
		return nil
	}
	return found.Get(0)
}
