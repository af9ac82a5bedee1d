package llmready

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Route prefixes of framework internals that are never listed.
var internalRoutePrefixes = []string{
	"_ignition",
	"_debugbar",
	"sanctum",
	"livewire",
	"up",
}

// Static and meta files that are never listed.
var staticRouteFiles = []string{
	"llms.txt",
	"robots.txt",
	"sitemap.xml",
	"sitemap.txt",
	"favicon.ico",
	"manifest.json",
	"browserconfig.xml",
	"ads.txt",
	"security.txt",
	".well-known",
}

// LLMsTxtGenerator renders llms.txt documents following the llmstxt.org
// layout.
type LLMsTxtGenerator struct {
	Options  LLMsTxtOptions
	SiteName string
	Filter   RouteFilter
}

// NewLLMsTxtGenerator returns a generator configured from cfg.
func NewLLMsTxtGenerator(cfg *Config, filter RouteFilter) *LLMsTxtGenerator {
	return &LLMsTxtGenerator{
		Options:  cfg.LLMsTxt,
		SiteName: cfg.SiteName,
		Filter:   filter,
	}
}

// Generate renders llms.txt for a site at baseURL with the given routes.
func (g *LLMsTxtGenerator) Generate(baseURL string, routes []string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	opts := g.Options

	title := opts.Title
	if title == "" {
		title = g.SiteName
	}
	if title == "" {
		title = "Website"
	}

	lines := []string{"# " + title, ""}

	if opts.Summary != "" {
		lines = append(lines, "> "+opts.Summary, "")
	}

	lines = append(lines,
		"All pages on this site are available in markdown format for LLM consumption.",
		"Append `.md` to any URL or add `?format=md` to get the markdown version.",
		"",
	)

	for _, p := range opts.Description {
		lines = append(lines, p, "")
	}

	for _, s := range opts.Sections {
		lines = append(lines, "## "+s.Title, "")
		lines = append(lines, formatLinks(s.Links, baseURL)...)
		lines = append(lines, "")
	}

	if opts.AutoSection.Enabled {
		if eligible := g.EligibleRoutes(routes); len(eligible) > 0 {
			sectionTitle := opts.AutoSection.Title
			if sectionTitle == "" {
				sectionTitle = "Pages"
			}
			if opts.AutoSection.IncludeInOptional {
				lines = append(lines, "## Optional", "", "### "+sectionTitle)
			} else {
				lines = append(lines, "## "+sectionTitle)
			}
			lines = append(lines, "")
			for _, route := range eligible {
				u := strings.TrimRight(baseURL+"/"+strings.TrimLeft(route, "/"), "/")
				if u == "" {
					u = baseURL
				}
				lines = append(lines, "- ["+routeLabel(route)+"]("+u+")")
			}
			lines = append(lines, "")
		}
	}

	if opts.Optional.Enabled && len(opts.Optional.Content) > 0 {
		optionalTitle := opts.Optional.Title
		if optionalTitle == "" {
			optionalTitle = "Optional"
		}
		lines = append(lines, "## "+optionalTitle, "")
		lines = append(lines, formatLinks(opts.Optional.Content, baseURL)...)
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// EligibleRoutes filters routes down to the sorted, unique set of pages
// worth listing. Dynamic, excluded, internal and static routes are dropped.
func (g *LLMsTxtGenerator) EligibleRoutes(routes []string) []string {
	eligible := make([]string, 0, len(routes))
	for _, route := range routes {
		if strings.Contains(route, "{") {
			continue
		}
		if g.Filter != nil && g.Filter.ShouldExclude(NormalizePath(route)) {
			continue
		}
		if isInternalRoute(route) {
			continue
		}
		eligible = append(eligible, NormalizePath(route))
	}
	slices.Sort(eligible)
	return slices.Compact(eligible)
}

func isInternalRoute(route string) bool {
	uri := strings.TrimLeft(route, "/")
	for _, prefix := range internalRoutePrefixes {
		if uri == prefix || strings.HasPrefix(uri, prefix+"/") {
			return true
		}
	}
	if IsMarkdownPath(uri) {
		return true
	}
	for _, file := range staticRouteFiles {
		if strings.HasPrefix(uri, file) {
			return true
		}
	}
	return false
}

func formatLinks(links []LLMsTxtLink, baseURL string) []string {
	formatted := make([]string, 0, len(links))
	for _, l := range links {
		label := l.Description
		if label == "" {
			label = urlLabel(l.URL)
		}
		formatted = append(formatted, "- ["+label+"]("+absoluteURL(l.URL, baseURL)+")")
	}
	return formatted
}

func absoluteURL(u, baseURL string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return baseURL + "/" + strings.TrimLeft(u, "/")
}

func urlLabel(u string) string {
	return routeLabel(strings.TrimSuffix(u, MarkdownExt))
}

func routeLabel(route string) string {
	trimmed := strings.Trim(route, "/")
	if trimmed == "" {
		return "Home"
	}
	parts := strings.Split(trimmed, "/")
	slug := parts[len(parts)-1]
	if slug == "" {
		return "Home"
	}
	words := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return cases.Title(language.Und, cases.NoLower).String(words)
}

