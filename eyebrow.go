package llmready

import "golang.org/x/net/html"

// EyebrowAttr marks elements restructured as eyebrow labels.
const EyebrowAttr = "data-llm-eyebrow"

// EyebrowMarker restructures short labels rendered above headings into
// standalone emphasized paragraphs.
type EyebrowMarker interface {
	// MarkEyebrows mutates doc in place. Running it twice with the same
	// arguments has the same effect as running it once.
	MarkEyebrows(doc *html.Node, selectors []string, autoDetect bool)
}
