package readability

import (
	"bytes"
	"strings"

	"github.com/fwojciec/llmready"
	"github.com/fwojciec/llmready/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Ensure Extractor implements llmready.ContentExtractor at compile time.
var _ llmready.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to locate the main content of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract prunes ignored subtrees and returns the readability article
// content, or the body when readability finds nothing.
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

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return goquery.BodyHTML(doc)
	}

	article, err := readability.FromReader(&buf, nil)
	if err != nil || strings.TrimSpace(article.TextContent) == "" {
		return goquery.BodyHTML(doc)
	}
	return strings.TrimSpace(article.Content)
}
