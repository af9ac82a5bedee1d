package llmready

import "context"

// Page is a converted markdown document ready to be stored.
type Page struct {
	URL     string
	Content string // Markdown
}

// ExportProgress reports progress while exporting a site.
type ExportProgress struct {
	URL       string
	Completed int
	Total     int
	Error     error
}

// ExportProgressFunc is called as pages are processed.
type ExportProgressFunc func(ExportProgress)

// Fetcher retrieves upstream HTML responses. Error statuses are returned
// as responses, not errors; errors are reserved for transport failures.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// PageStore persists pages to storage with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type PageStore interface {
	Save(ctx context.Context, page *Page) error
	SaveFile(ctx context.Context, name, content string) error
	Commit() error
	Abort() error
}

// DomainLimiter throttles requests per domain.
type DomainLimiter interface {
	Wait(ctx context.Context, domain string) error
}

// RobotsPolicy decides whether a crawler may fetch a URL.
type RobotsPolicy interface {
	Allowed(ctx context.Context, url string) bool
}

// URLSet remembers URLs already scheduled. Implementations may report
// false positives but never false negatives.
type URLSet interface {
	// Add records url and reports whether it was new.
	Add(url string) bool
}
