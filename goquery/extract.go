package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/llmready"
	"golang.org/x/net/html"
)

var (
	_ llmready.ContentExtractor = (*DefaultExtractor)(nil)
	_ llmready.ContentExtractor = (*FallbackExtractor)(nil)
)

// DefaultExtractor prunes ignored subtrees and returns the inner markup of
// the first content selector that matches.
type DefaultExtractor struct{}

// Extract implements llmready.ContentExtractor.
func (e *DefaultExtractor) Extract(doc *html.Node, contentSelectors, ignoreSelectors []string) string {
	if doc == nil {
		return ""
	}
	Prune(doc, ignoreSelectors)

	for _, selector := range contentSelectors {
		if content, ok := firstMatch(doc, selector); ok {
			return content
		}
	}
	return BodyHTML(doc)
}

// FallbackExtractor always returns the inner markup of the body.
type FallbackExtractor struct{}

// Extract implements llmready.ContentExtractor. Both selector lists are
// ignored.
func (e *FallbackExtractor) Extract(doc *html.Node, _, _ []string) string {
	return BodyHTML(doc)
}

// Prune removes every subtree matched by any of selectors. Matches are
// collected before the tree is touched.
func Prune(doc *html.Node, selectors []string) {
	if doc == nil {
		return
	}
	var doomed []*html.Node
	for _, selector := range selectors {
		doomed = append(doomed, Query(doc, selector)...)
	}
	for _, n := range doomed {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// BodyHTML returns the inner markup of the body element, or "" when the
// document has none.
func BodyHTML(doc *html.Node) string {
	if doc == nil {
		return ""
	}
	body := goquery.NewDocumentFromNode(doc).Find("body").First()
	if body.Length() == 0 {
		return ""
	}
	return InnerHTML(body.Get(0))
}

// InnerHTML serializes the children of n in document order.
func InnerHTML(n *html.Node) (content string) {
	defer func() {
		if recover() != nil {
			content = ""
		}
	}()
	s, err := goquery.NewDocumentFromNode(n).Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// firstMatch returns the inner markup of the first node matching selector.
// A panic while evaluating the selector counts as no match.
func firstMatch(doc *html.Node, selector string) (content string, ok bool) {
	defer func() {
		if recover() != nil {
			content, ok = "", false
		}
	}()
	nodes := Query(doc, selector)
	if len(nodes) == 0 {
		return "", false
	}
	content = InnerHTML(nodes[0])
	return content, content != ""
}
