package network

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/chrisuehlinger/typeddom/dom"
)

// Script is a classic script found in a document.
type Script struct {
	URL    string // source URL, or the document URL for inline scripts
	Source string
	Inline bool
	Defer  bool
	Async  bool
	Err    error // set when an external script failed to load
}

// Name identifies the script in stack traces.
func (s Script) Name(i int) string {
	if s.Inline {
		return fmt.Sprintf("%s#script%d", s.URL, i)
	}
	return s.URL
}

// PageScripts collects the classic scripts of doc in execution order:
// parser-blocking scripts in document order, then deferred scripts, then
// async ones. External sources are resolved against the document URL and
// loaded through l, at most four at a time. Module and data-block scripts
// are skipped.
func PageScripts(ctx context.Context, l *Loader, doc dom.Document) ([]Script, error) {
	elements, err := doc.QuerySelectorAll("script")
	if err != nil {
		return nil, err
	}

	var blocking, deferred, async []Script
	for _, el := range elements {
		typ, err := el.Attribute("type")
		if err != nil {
			return nil, err
		}
		if !isClassicScript(typ.ValueOrZero()) {
			continue
		}

		src, err := el.Attribute("src")
		if err != nil {
			return nil, err
		}
		if !src.Valid {
			blocking = append(blocking, Script{URL: doc.URL(), Source: el.TextContent(), Inline: true})
			continue
		}

		s := Script{}
		if s.Async, err = el.HasAttribute("async"); err != nil {
			return nil, err
		}
		if s.Defer, err = el.HasAttribute("defer"); err != nil {
			return nil, err
		}
		s.URL, s.Err = ResolveURL(doc.URL(), src.String)

		switch {
		case s.Async:
			async = append(async, s)
		case s.Defer:
			deferred = append(deferred, s)
		default:
			blocking = append(blocking, s)
		}
	}
	scripts := append(append(blocking, deferred...), async...)

	var g errgroup.Group
	g.SetLimit(4)
	for i := range scripts {
		s := &scripts[i]
		if s.Inline || s.Err != nil {
			continue
		}
		g.Go(func() error {
			res, err := l.Load(ctx, s.URL)
			if err == nil {
				s.Source, err = decodeScript(res)
			}
			s.Err = err
			// a failed script is recorded on it, only cancellation stops the page
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scripts, nil
}

func decodeScript(res *Resource) (string, error) {
	b, err := res.UTF8()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isClassicScript(typ string) bool {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "", "text/javascript", "application/javascript", "application/ecmascript", "text/ecmascript":
		return true
	}
	return false
}
