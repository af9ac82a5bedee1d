package llmready

import (
	"slices"
	"strconv"
	"time"
)

// Default limits applied to a single conversion.
const (
	DefaultMaxInputBytes = 5 << 20
	DefaultMaxNodes      = 200_000
)

// Config holds every option recognized by the conversion pipeline and the
// surfaces around it. Use DefaultConfig as the starting point.
type Config struct {
	// Enabled turns markdown interception on or off.
	Enabled bool `yaml:"enabled"`

	// SiteName is the llms.txt title used when LLMsTxt.Title is empty.
	SiteName string `yaml:"site_name"`

	Cache CacheOptions `yaml:"cache"`

	// ContentSelectors are tried in order; the first match wins.
	ContentSelectors []string `yaml:"content_selectors"`

	// IgnoreSelectors are removed from the whole document before extraction.
	IgnoreSelectors []string `yaml:"ignore_selectors"`

	EyebrowSelectors  []string `yaml:"eyebrow_selectors"`
	EyebrowAutoDetect bool     `yaml:"eyebrow_auto_detect"`

	// ExcludePatterns are glob patterns of paths never served as markdown.
	ExcludePatterns []string `yaml:"exclude_patterns"`

	// Routes lists site paths for llms.txt and export when no sitemap is used.
	Routes []string `yaml:"routes"`

	LinkHeader bool `yaml:"link_header"`

	LLMsTxt     LLMsTxtOptions     `yaml:"llms_txt"`
	Frontmatter FrontmatterOptions `yaml:"frontmatter"`

	// Extractor names the content extraction strategy.
	Extractor string `yaml:"extractor"`

	TableSupport bool `yaml:"table_support"`

	MaxInputBytes int `yaml:"max_input_bytes"`
	MaxNodes      int `yaml:"max_nodes"`
}

// CacheOptions configures caching of converted pages.
type CacheOptions struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
	Prefix  string        `yaml:"prefix"`
}

// CacheControl returns the Cache-Control header value for markdown responses.
func (o CacheOptions) CacheControl() string {
	if !o.Enabled {
		return "no-cache, no-store, must-revalidate"
	}
	return "public, max-age=" + strconv.Itoa(int(o.TTL/time.Second))
}

// FrontmatterOptions selects the fields written to the frontmatter block.
type FrontmatterOptions struct {
	IncludeTitle        bool `yaml:"include_title"`
	IncludeDescription  bool `yaml:"include_description"`
	IncludeURL          bool `yaml:"include_url"`
	IncludeLastModified bool `yaml:"include_last_modified"`

	// CustomFields are appended after the built-in fields in order.
	CustomFields []Field `yaml:"-"`
}

// LLMsTxtOptions configures the llms.txt document.
type LLMsTxtOptions struct {
	Enabled     bool             `yaml:"enabled"`
	CacheTTL    time.Duration    `yaml:"cache_ttl"`
	Title       string           `yaml:"title"`
	Summary     string           `yaml:"summary"`
	Description []string         `yaml:"description"`
	Sections    []LLMsTxtSection `yaml:"sections"`
	AutoSection AutoSection      `yaml:"auto_section"`
	Optional    OptionalSection  `yaml:"optional_section"`
}

// LLMsTxtSection is a curated H2 section of links.
type LLMsTxtSection struct {
	Title string        `yaml:"title"`
	Links []LLMsTxtLink `yaml:"links"`
}

// LLMsTxtLink is a single link entry. Description, when set, is used as the
// link label.
type LLMsTxtLink struct {
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
}

// AutoSection configures the section listing discovered routes.
type AutoSection struct {
	Enabled           bool   `yaml:"enabled"`
	Title             string `yaml:"title"`
	IncludeInOptional bool   `yaml:"include_in_optional"`
}

// OptionalSection configures a trailing section of secondary links.
type OptionalSection struct {
	Enabled bool          `yaml:"enabled"`
	Title   string        `yaml:"title"`
	Content []LLMsTxtLink `yaml:"content"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		Enabled:  true,
		SiteName: "Website",
		Cache: CacheOptions{
			Enabled: true,
			TTL:     24 * time.Hour,
			Prefix:  "llm_ready",
		},
		ContentSelectors: []string{
			"main",
			"article",
			`[role="main"]`,
			".content",
			".post-content",
			".entry-content",
			"#content",
			"#main-content",
		},
		IgnoreSelectors: []string{
			"nav",
			"header",
			"footer",
			"aside",
			".sidebar",
			".navigation",
			".menu",
			".breadcrumb",
			".breadcrumbs",
			".advertisement",
			".ad",
			".ads",
			".comments",
			".comment-form",
			".social-share",
			".related-posts",
			"script",
			"style",
			"noscript",
			"iframe",
			"form",
			"button",
			`[role="navigation"]`,
			`[role="banner"]`,
			`[role="contentinfo"]`,
			`[aria-hidden="true"]`,
		},
		EyebrowSelectors: []string{
			".eyebrow",
			".overline",
			".kicker",
			".super-title",
			".pre-title",
			".pre-heading",
			".subtitle",
			".tagline",
			`[class*="eyebrow"]`,
			`[class*="overline"]`,
			`[class*="kicker"]`,
		},
		EyebrowAutoDetect: true,
		ExcludePatterns: []string{
			"/admin/*",
			"/api/*",
			"/livewire/*",
			"/_ignition/*",
			"/telescope/*",
			"/horizon/*",
			"/pulse/*",
			"*/login",
			"*/logout",
			"*/register",
			"*/password/*",
		},
		LinkHeader: true,
		LLMsTxt: LLMsTxtOptions{
			Enabled:  true,
			CacheTTL: time.Hour,
			AutoSection: AutoSection{
				Enabled: true,
				Title:   "Pages",
			},
			Optional: OptionalSection{
				Title: "Optional",
			},
		},
		Frontmatter: FrontmatterOptions{
			IncludeTitle:        true,
			IncludeDescription:  true,
			IncludeURL:          true,
			IncludeLastModified: true,
		},
		Extractor:     ExtractorDefault,
		TableSupport:  true,
		MaxInputBytes: DefaultMaxInputBytes,
		MaxNodes:      DefaultMaxNodes,
	}
}

// Validate returns an error if the configuration contains invalid fields.
func (c *Config) Validate() error {
	if c.Cache.Enabled && c.Cache.Prefix == "" {
		return Errorf(EINVALID, "cache prefix required when caching is enabled")
	}
	if c.Cache.TTL < 0 {
		return Errorf(EINVALID, "cache ttl must not be negative")
	}
	if !slices.Contains(Extractors(), c.Extractor) {
		return Errorf(EINVALID, "unknown extractor %q", c.Extractor)
	}
	if c.MaxInputBytes <= 0 {
		return Errorf(EINVALID, "max input bytes must be positive")
	}
	if c.MaxNodes <= 0 {
		return Errorf(EINVALID, "max nodes must be positive")
	}
	for _, f := range c.Frontmatter.CustomFields {
		if f.Key == "" {
			return Errorf(EINVALID, "custom frontmatter field key required")
		}
	}
	for _, s := range c.LLMsTxt.Sections {
		if s.Title == "" {
			return Errorf(EINVALID, "llms.txt section title required")
		}
	}
	return nil
}
