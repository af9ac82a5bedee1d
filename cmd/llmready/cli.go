package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/llmready"
	"github.com/fwojciec/llmready/convert"
	llmhttp "github.com/fwojciec/llmready/http"
	llmslog "github.com/fwojciec/llmready/slog"
)

// ExpiredRemover deletes expired cache entries.
type ExpiredRemover interface {
	DeleteExpired(ctx context.Context) (int, error)
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Config   *llmready.Config
	Cache    llmready.Cache
	Expired  ExpiredRemover
	Filter   llmready.RouteFilter
	Service  *convert.Service
	Pages    llmready.PageConverter
	Fetcher  llmready.Fetcher
	Sitemaps *llmhttp.SitemapService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `short:"c" env:"LLMREADY_CONFIG" type:"path" help:"YAML configuration file"`
	DB     string `env:"LLMREADY_DB" type:"path" help:"Cache database path"`
	Debug  bool   `help:"Enable debug logging"`

	Serve      ServeCmd      `cmd:"" help:"Serve an upstream site with Markdown variants"`
	Convert    ConvertCmd    `cmd:"" help:"Convert a URL or HTML file to Markdown"`
	Export     ExportCmd     `cmd:"" help:"Export a site as Markdown files"`
	LLMsTxt    LLMsTxtCmd    `cmd:"" name:"llms-txt" help:"Print the llms.txt document for a site"`
	ClearCache ClearCacheCmd `cmd:"" name:"clear-cache" help:"Remove cached Markdown"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Upstream string `short:"u" required:"" env:"LLMREADY_UPSTREAM" help:"Upstream site URL"`
	Listen   string `short:"l" default:":8080" env:"LLMREADY_LISTEN" help:"Listen address"`
}

// ConvertCmd is the "convert" subcommand.
type ConvertCmd struct {
	Source string `arg:"" help:"URL or HTML file to convert"`
	URL    string `help:"Page URL recorded in frontmatter when converting a file"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	URL         string  `arg:"" help:"Site URL"`
	Output      string  `short:"o" default:"." type:"path" help:"Directory the export is written under"`
	Name        string  `short:"n" help:"Export directory name (defaults to the site host)"`
	Concurrency int     `default:"4" help:"Concurrent fetch limit"`
	RPS         float64 `name:"rps" default:"2" help:"Requests per second per domain (0 for unlimited)"`
	Sitemap     bool    `help:"Discover routes from the sitemap even when routes are configured"`
}

// LLMsTxtCmd is the "llms-txt" subcommand.
type LLMsTxtCmd struct {
	URL string `arg:"" help:"Site URL"`
}

// ClearCacheCmd is the "clear-cache" subcommand.
type ClearCacheCmd struct {
	URL     string `help:"Only clear the cached Markdown of this page URL"`
	Sitemap bool   `help:"Only clear the cached llms.txt document"`
	Expired bool   `help:"Only remove expired entries"`
}

// routeSource returns the configured static routes, or the routes listed in
// the sitemaps of baseURL when none are configured or sitemap is set.
func routeSource(deps *Dependencies, baseURL string, sitemap bool) llmready.RouteSource {
	var routes llmready.RouteSource = llmhttp.NewSitemapRoutes(deps.Sitemaps, baseURL)
	if len(deps.Config.Routes) > 0 && !sitemap {
		routes = llmready.StaticRoutes(deps.Config.Routes)
	}
	return llmslog.NewLoggingRouteSource(routes, deps.Logger)
}
