package llmready

import "golang.org/x/net/html"

// Extraction strategy names accepted by Config.Extractor.
const (
	ExtractorDefault     = "default"
	ExtractorFallback    = "fallback"
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"
)

// Extractors returns all known extraction strategy names.
func Extractors() []string {
	return []string{ExtractorDefault, ExtractorFallback, ExtractorTrafilatura, ExtractorReadability}
}

// ContentExtractor locates the primary content of a parsed document.
type ContentExtractor interface {
	// Extract returns the serialized inner markup of the content region,
	// the whole body when no region matches, or "" when there is no body.
	// Implementations may mutate doc and must never panic.
	Extract(doc *html.Node, contentSelectors, ignoreSelectors []string) string
}
