package llmready

import (
	"context"
	"net/http"

	"golang.org/x/net/html"
)

// Parser parses raw HTML into a mutable document tree owned by the caller.
type Parser interface {
	Parse(raw string) (*html.Node, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into first-pass Markdown.
	// The output is structurally plausible but not yet cleaned.
	Convert(html string) (string, error)
}

// PageConverter turns an upstream HTML response into the final Markdown
// document served for a URL. It never fails: faults are rendered as error
// documents.
type PageConverter interface {
	Convert(ctx context.Context, url string, resp *Response) string

	// ErrorMarkdown renders the error document for a status code.
	ErrorMarkdown(url string, status int, message string) string
}

// Response is an upstream HTML response handed to a PageConverter.
type Response struct {
	StatusCode  int
	ContentType string
	Body        string
}

// OK reports whether the response status does not signal an error.
func (r *Response) OK() bool {
	return r.StatusCode < http.StatusBadRequest
}
