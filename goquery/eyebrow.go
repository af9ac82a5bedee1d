package goquery

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/llmready"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var _ llmready.EyebrowMarker = (*EyebrowMarker)(nil)

const (
	headingSelector = "h1, h2, h3, h4, h5, h6"
	badgeSelector   = `[class*="badge"], [class*="chip"], [class*="label"], [class*="tag"], [class*="category"]`

	maxEyebrowRunes = 40
	maxEyebrowWords = 3
)

// EyebrowMarker rewrites short labels near headings into standalone
// emphasized paragraphs.
type EyebrowMarker struct{}

// MarkEyebrows implements llmready.EyebrowMarker.
func (m *EyebrowMarker) MarkEyebrows(doc *html.Node, selectors []string, autoDetect bool) {
	if doc == nil {
		return
	}
	defer func() { _ = recover() }()

	p := &eyebrowPass{doc: doc, visited: make(map[*html.Node]bool)}

	for _, selector := range selectors {
		for _, n := range Query(doc, selector) {
			if p.markable(n) {
				p.wrap(n)
			}
		}
	}

	if !autoDetect {
		return
	}

	for _, h := range Query(doc, headingSelector) {
		if prev := previousElement(h); prev != nil && p.looksLikeEyebrow(prev) {
			p.wrap(prev)
		}
	}
	for _, n := range Query(doc, badgeSelector) {
		if p.looksLikeEyebrow(n) {
			p.wrap(n)
		}
	}
}

// eyebrowPass holds the state of one MarkEyebrows call.
type eyebrowPass struct {
	doc     *html.Node
	visited map[*html.Node]bool
}

// markable reports whether n is an attached element with text that has not
// been marked and contains nothing marked.
func (p *eyebrowPass) markable(n *html.Node) bool {
	if n.Type != html.ElementNode || p.visited[n] || isMarked(n) || !p.attached(n) {
		return false
	}
	if hasDescendant(n, isMarked) {
		return false
	}
	return nodeText(n) != ""
}

func (p *eyebrowPass) looksLikeEyebrow(n *html.Node) bool {
	if !p.markable(n) {
		return false
	}
	text := nodeText(n)
	if utf8.RuneCountInString(text) > maxEyebrowRunes {
		return false
	}
	if hasDescendant(n, func(c *html.Node) bool { return c.Type == html.ElementNode && c.DataAtom == atom.A }) {
		return false
	}

	score := 0
	if isUppercase(text) {
		score++
	}
	switch n.DataAtom {
	case atom.Span, atom.Div, atom.P, atom.Small:
		score++
	}
	if wordCount(text) <= maxEyebrowWords {
		score++
	}
	return score >= 2
}

// wrap marks n and replaces it with <p data-llm-eyebrow="true"><em>text</em></p>.
func (p *eyebrowPass) wrap(n *html.Node) {
	p.visited[n] = true
	setAttr(n, llmready.EyebrowAttr, "true")
	if n.Parent == nil {
		return
	}

	em := &html.Node{Type: html.ElementNode, Data: "em", DataAtom: atom.Em}
	em.AppendChild(&html.Node{Type: html.TextNode, Data: nodeText(n)})
	para := &html.Node{
		Type:     html.ElementNode,
		Data:     "p",
		DataAtom: atom.P,
		Attr:     []html.Attribute{{Key: llmready.EyebrowAttr, Val: "true"}},
	}
	para.AppendChild(em)
	p.visited[para] = true

	parent := n.Parent
	parent.InsertBefore(para, n)
	parent.RemoveChild(n)
}

func (p *eyebrowPass) attached(n *html.Node) bool {
	for c := n; c != nil; c = c.Parent {
		if c == p.doc {
			return true
		}
	}
	return false
}

// previousElement skips whitespace-only text siblings. Any other node
// between n and the preceding element stops the walk.
func previousElement(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		switch {
		case s.Type == html.ElementNode:
			return s
		case s.Type == html.TextNode && strings.TrimSpace(s.Data) == "":
			continue
		default:
			return nil
		}
	}
	return nil
}

func isMarked(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == llmready.EyebrowAttr {
			return true
		}
	}
	return false
}

func hasDescendant(n *html.Node, match func(*html.Node) bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if match(c) || hasDescendant(c, match) {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func nodeText(n *html.Node) string {
	return strings.TrimSpace(goquery.NewDocumentFromNode(n).Text())
}

// isUppercase requires at least one cased uppercase letter, so text in
// scripts without case never qualifies.
func isUppercase(text string) bool {
	return strings.ToUpper(text) == text && strings.IndexFunc(text, unicode.IsUpper) >= 0
}

// wordCount counts runs of letters, apostrophes and hyphens.
func wordCount(text string) int {
	return len(strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\'' && r != '-'
	}))
}
