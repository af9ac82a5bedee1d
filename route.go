package llmready

import (
	"context"
	"html"
	"slices"
	"strings"
)

// MarkdownExt is the path suffix that requests the markdown variant of a page.
const MarkdownExt = ".md"

// RouteFilter decides which paths are never served as markdown.
type RouteFilter interface {
	// ShouldExclude reports whether path matches an exclusion pattern.
	// The path may be a bare path or an absolute URL.
	ShouldExclude(path string) bool
}

// RouteSource lists the paths of a site.
type RouteSource interface {
	// Routes returns site paths such as "/" or "/blog/hello".
	Routes(ctx context.Context) ([]string, error)
}

// IsMarkdownPath reports whether path requests a markdown variant.
func IsMarkdownPath(path string) bool {
	return strings.HasSuffix(path, MarkdownExt)
}

// OriginalPath resolves a markdown request path to the page it describes.
// "/index.md" maps to "/", "/blog/index.md" to "/blog" and "/about.md" to
// "/about".
func OriginalPath(mdPath string) string {
	stripped := strings.TrimSuffix(mdPath, MarkdownExt)
	if stripped == "" || stripped == "/index" || stripped == "index" {
		return "/"
	}
	if dir, ok := strings.CutSuffix(stripped, "/index"); ok {
		stripped = dir
	}
	return NormalizePath(stripped)
}

// MarkdownPath returns the markdown request path for a page path.
func MarkdownPath(path string) string {
	path = strings.TrimRight(NormalizePath(path), "/")
	if path == "" {
		return "/index" + MarkdownExt
	}
	return path + MarkdownExt
}

// NormalizePath ensures path starts with a slash.
func NormalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// MarkdownURL returns the absolute markdown URL for path on origin
// (scheme and host, without a trailing slash). It returns false when the
// path is excluded.
func MarkdownURL(origin, path string, filter RouteFilter) (string, bool) {
	path = NormalizePath(path)
	if filter != nil && filter.ShouldExclude(path) {
		return "", false
	}
	return strings.TrimRight(origin, "/") + MarkdownPath(path), true
}

// LinkHeaderValue returns a Link header advertising the markdown variant.
func LinkHeaderValue(mdURL string) string {
	return "<" + mdURL + `>; rel="alternate"; type="text/markdown"`
}

// LinkTag returns an HTML link element advertising the markdown variant.
func LinkTag(mdURL string) string {
	return `<link rel="alternate" type="text/markdown" href="` + html.EscapeString(mdURL) + `">`
}

// StaticRoutes is a RouteSource backed by a fixed list of paths.
type StaticRoutes []string

// Routes returns the configured paths.
func (r StaticRoutes) Routes(ctx context.Context) ([]string, error) {
	return slices.Clone([]string(r)), nil
}
