package mock

import (
	"github.com/fwojciec/llmready"
	"golang.org/x/net/html"
)

var (
	_ llmready.Parser             = (*Parser)(nil)
	_ llmready.ContentExtractor   = (*ContentExtractor)(nil)
	_ llmready.EyebrowMarker      = (*EyebrowMarker)(nil)
	_ llmready.MetadataReader     = (*MetadataReader)(nil)
	_ llmready.FrontmatterEncoder = (*FrontmatterEncoder)(nil)
)

// Parser is a mock implementation of llmready.Parser.
type Parser struct {
	ParseFn func(raw string) (*html.Node, error)
}

func (p *Parser) Parse(raw string) (*html.Node, error) {
	return p.ParseFn(raw)
}

// ContentExtractor is a mock implementation of llmready.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(doc *html.Node, contentSelectors, ignoreSelectors []string) string
}

func (e *ContentExtractor) Extract(doc *html.Node, contentSelectors, ignoreSelectors []string) string {
	return e.ExtractFn(doc, contentSelectors, ignoreSelectors)
}

// EyebrowMarker is a mock implementation of llmready.EyebrowMarker.
type EyebrowMarker struct {
	MarkEyebrowsFn func(doc *html.Node, selectors []string, autoDetect bool)
}

func (m *EyebrowMarker) MarkEyebrows(doc *html.Node, selectors []string, autoDetect bool) {
	m.MarkEyebrowsFn(doc, selectors, autoDetect)
}

// MetadataReader is a mock implementation of llmready.MetadataReader.
type MetadataReader struct {
	ReadMetadataFn func(doc *html.Node) llmready.PageMetadata
}

func (r *MetadataReader) ReadMetadata(doc *html.Node) llmready.PageMetadata {
	return r.ReadMetadataFn(doc)
}

// FrontmatterEncoder is a mock implementation of llmready.FrontmatterEncoder.
type FrontmatterEncoder struct {
	EncodeFn func(fields []llmready.Field) (string, error)
}

func (e *FrontmatterEncoder) Encode(fields []llmready.Field) (string, error) {
	return e.EncodeFn(fields)
}
