package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/llmready"
	"golang.org/x/net/html"
)

// Parse parses raw into a document tree. Inputs longer than maxBytes or
// producing more than maxNodes nodes are rejected. Non-positive limits
// disable the corresponding check.
func Parse(raw string, maxBytes, maxNodes int) (*html.Node, error) {
	if maxBytes > 0 && len(raw) > maxBytes {
		return nil, llmready.Errorf(llmready.EINVALID, "document exceeds %d bytes", maxBytes)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, llmready.Errorf(llmready.EINVALID, "failed to parse HTML: %v", err)
	}
	root := doc.Get(0)

	if maxNodes > 0 && exceedsNodes(root, maxNodes) {
		return nil, llmready.Errorf(llmready.EINVALID, "document exceeds %d nodes", maxNodes)
	}
	return root, nil
}

// exceedsNodes walks the tree iteratively and stops as soon as the limit
// is crossed.
func exceedsNodes(root *html.Node, limit int) bool {
	count := 0
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		if count > limit {
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			stack = append(stack, c)
		}
	}
	return false
}

// Ensure Parser implements llmready.Parser at compile time.
var _ llmready.Parser = (*Parser)(nil)

// Parser parses documents under fixed size limits.
type Parser struct {
	MaxBytes int
	MaxNodes int
}

// NewParser returns a Parser enforcing the limits in cfg.
func NewParser(cfg *llmready.Config) *Parser {
	return &Parser{MaxBytes: cfg.MaxInputBytes, MaxNodes: cfg.MaxNodes}
}

// Parse implements llmready.Parser.
func (p *Parser) Parse(raw string) (*html.Node, error) {
	return Parse(raw, p.MaxBytes, p.MaxNodes)
}
