package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/llmready"
	"github.com/fwojciec/llmready/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements llmready.ContentExtractor at compile time.
var _ llmready.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to locate the main content of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract prunes ignored subtrees and lets trafilatura pick the main
// content. Content selectors are not consulted. When trafilatura finds
// nothing the body is returned.
func (e *Extractor) Extract(doc *html.Node, _, ignoreSelectors []string) (content string) {
	if doc == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			content = goquery.BodyHTML(doc)
		}
	}()

	goquery.Prune(doc, ignoreSelectors)

	raw, err := renderNode(doc)
	if err != nil {
		return goquery.BodyHTML(doc)
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(raw), opts)
	if err != nil || result == nil || result.ContentNode == nil {
		return goquery.BodyHTML(doc)
	}

	if content = goquery.InnerHTML(result.ContentNode); content != "" {
		return content
	}
	return goquery.BodyHTML(doc)
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
