// Package glob implements route exclusion with gobwas/glob patterns.
package glob

import (
	"net/url"
	"strings"

	"github.com/fwojciec/llmready"
	"github.com/gobwas/glob"
)

// Ensure RouteFilter implements llmready.RouteFilter at compile time.
var _ llmready.RouteFilter = (*RouteFilter)(nil)

// RouteFilter excludes paths matching any of a set of glob patterns.
// Matching is case-insensitive and "*" also matches "/". A pattern ending
// in "/*" additionally matches its prefix and everything nested below it.
type RouteFilter struct {
	rules []rule
}

type rule struct {
	pattern string
	prefix  string // set for patterns ending in "/*"
	g       glob.Glob
}

// NewRouteFilter compiles patterns. A malformed pattern is an EINVALID error.
func NewRouteFilter(patterns []string) (*RouteFilter, error) {
	rules := make([]rule, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "*") {
			p = "/" + p
		}

		g, err := glob.Compile(p)
		if err != nil {
			return nil, llmready.Errorf(llmready.EINVALID, "invalid exclude pattern %q: %v", p, err)
		}

		r := rule{pattern: p, g: g}
		if prefix, ok := strings.CutSuffix(p, "/*"); ok {
			r.prefix = prefix
		}
		rules = append(rules, r)
	}
	return &RouteFilter{rules: rules}, nil
}

// ShouldExclude implements llmready.RouteFilter.
func (f *RouteFilter) ShouldExclude(path string) bool {
	path = strings.ToLower(routePath(path))
	for _, r := range f.rules {
		if r.prefix != "" && (path == r.prefix || strings.HasPrefix(path, r.prefix+"/")) {
			return true
		}
		if r.g.Match(path) {
			return true
		}
	}
	return false
}

// Patterns returns the normalized patterns in order.
func (f *RouteFilter) Patterns() []string {
	patterns := make([]string, len(f.rules))
	for i, r := range f.rules {
		patterns[i] = r.pattern
	}
	return patterns
}

// routePath reduces a URL or path to a path with a leading slash.
func routePath(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		raw = u.Path
	}
	return llmready.NormalizePath(raw)
}
