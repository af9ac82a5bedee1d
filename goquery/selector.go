package goquery

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var _ cascadia.Matcher = Predicate(nil)

// Predicate reports whether a node matches a compiled selector.
type Predicate func(n *html.Node) bool

// Match implements cascadia.Matcher.
func (p Predicate) Match(n *html.Node) bool {
	return p(n)
}

func matchNothing(*html.Node) bool { return false }

// Compile translates a CSS selector group into a Predicate. A malformed
// selector compiles to a predicate that matches nothing.
func Compile(selector string) Predicate {
	group, err := cascadia.ParseGroup(strings.TrimSpace(selector))
	if err != nil {
		return matchNothing
	}
	return func(n *html.Node) (matched bool) {
		defer func() {
			if recover() != nil {
				matched = false
			}
		}()
		return n != nil && group.Match(n)
	}
}

// Query returns the descendants of doc matching selector in document order.
// A malformed selector yields no nodes.
func Query(doc *html.Node, selector string) (nodes []*html.Node) {
	if doc == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			nodes = nil
		}
	}()
	return cascadia.QueryAll(doc, Compile(selector))
}
