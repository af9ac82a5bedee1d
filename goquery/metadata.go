package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/llmready"
	"golang.org/x/net/html"
)

var _ llmready.MetadataReader = (*MetadataReader)(nil)

// MetadataReader reads title and description from document markup.
type MetadataReader struct{}

// ReadMetadata implements llmready.MetadataReader. The title comes from
// <title>, then the first <h1>, then og:title. The description comes from
// meta description, then og:description.
func (r *MetadataReader) ReadMetadata(doc *html.Node) llmready.PageMetadata {
	if doc == nil {
		return llmready.PageMetadata{}
	}
	d := goquery.NewDocumentFromNode(doc)

	return llmready.PageMetadata{
		Title: firstNonEmpty(
			d.Find("title").First().Text(),
			d.Find("h1").First().Text(),
			d.Find(`meta[property="og:title"]`).First().AttrOr("content", ""),
		),
		Description: firstNonEmpty(
			d.Find(`meta[name="description"]`).First().AttrOr("content", ""),
			d.Find(`meta[property="og:description"]`).First().AttrOr("content", ""),
		),
	}
}

// firstNonEmpty returns the first candidate that is not blank, with runs of
// whitespace collapsed to single spaces.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if s := strings.Join(strings.Fields(c), " "); s != "" {
			return s
		}
	}
	return ""
}
