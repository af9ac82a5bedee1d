// Package export writes a static markdown copy of a site: one ".md" file
// per page plus llms.txt, committed atomically.
package export

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/llmready"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages fetched in parallel when
// Exporter.Concurrency is not set.
const DefaultConcurrency = 4

// LLMsTxtFile is the name llms.txt is written under.
const LLMsTxtFile = "llms.txt"

// Exporter orchestrates the export of a site.
type Exporter struct {
	Routes    llmready.RouteSource
	Fetcher   llmready.Fetcher
	Converter llmready.PageConverter
	Store     llmready.PageStore

	// Optional collaborators.
	Filter  llmready.RouteFilter
	Robots  llmready.RobotsPolicy
	Limiter llmready.DomainLimiter
	Seen    llmready.URLSet
	LLMsTxt *llmready.LLMsTxtGenerator

	Concurrency int
	RetryDelays []time.Duration
}

// Result holds the outcome of an export.
type Result struct {
	Saved   int
	Skipped int
	Failed  int
	Bytes   int
}

// pageResult holds the outcome of exporting a single page.
type pageResult struct {
	position int
	route    string
	url      string
	markdown string
	err      error
}

// Export writes every eligible page of the site at baseURL to the store.
// Pages that fail are counted, not fatal; the store is aborted only when
// the export itself cannot complete.
func (e *Exporter) Export(ctx context.Context, baseURL string, progress llmready.ExportProgressFunc) (result *Result, err error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, llmready.Errorf(llmready.EINVALID, "invalid base URL %q", baseURL)
	}
	origin := base.Scheme + "://" + base.Host

	routes, err := e.Routes.Routes(ctx)
	if err != nil {
		return nil, fmt.Errorf("route discovery: %w", err)
	}

	defer func() {
		if err != nil {
			_ = e.Store.Abort()
		}
	}()

	result = &Result{}
	paths := e.plan(ctx, origin, routes, result)
	results := e.fetchAll(ctx, origin, base.Host, paths, progress)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var saved []string
	for _, r := range results {
		if r.err != nil {
			result.Failed++
			continue
		}
		if err := e.Store.Save(ctx, &llmready.Page{URL: r.url, Content: r.markdown}); err != nil {
			return nil, fmt.Errorf("save %s: %w", r.url, err)
		}
		result.Saved++
		result.Bytes += len(r.markdown)
		saved = append(saved, r.route)
	}

	if e.LLMsTxt != nil {
		if err := e.Store.SaveFile(ctx, LLMsTxtFile, e.LLMsTxt.Generate(origin, saved)); err != nil {
			return nil, fmt.Errorf("save %s: %w", LLMsTxtFile, err)
		}
	}

	if err := e.Store.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return result, nil
}

// plan returns the paths to export in route order. Dynamic, markdown,
// excluded and robots-disallowed routes are skipped; duplicates are
// dropped silently.
func (e *Exporter) plan(ctx context.Context, origin string, routes []string, result *Result) []string {
	seen := e.Seen
	if seen == nil {
		seen = make(stringSet)
	}

	paths := make([]string, 0, len(routes))
	for _, route := range routes {
		path := llmready.NormalizePath(route)
		if strings.Contains(path, "{") || llmready.IsMarkdownPath(path) {
			result.Skipped++
			continue
		}
		if e.Filter != nil && e.Filter.ShouldExclude(path) {
			result.Skipped++
			continue
		}
		if !seen.Add(path) {
			continue
		}
		if e.Robots != nil && !e.Robots.Allowed(ctx, origin+path) {
			result.Skipped++
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

// fetchAll exports paths concurrently and returns their results in input
// order. progress is called once per finished page.
func (e *Exporter) fetchAll(ctx context.Context, origin, host string, paths []string, progress llmready.ExportProgressFunc) []pageResult {
	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan pageResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, path := range paths {
			g.Go(func() error {
				resultCh <- e.exportPage(gctx, i, origin, host, path)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]pageResult, len(paths))
	completed := 0
	for r := range resultCh {
		completed++
		results[r.position] = r
		if progress != nil {
			progress(llmready.ExportProgress{
				URL:       r.url,
				Completed: completed,
				Total:     len(paths),
				Error:     r.err,
			})
		}
	}
	return results
}

// exportPage fetches and converts a single page.
func (e *Exporter) exportPage(ctx context.Context, position int, origin, host, path string) pageResult {
	result := pageResult{
		position: position,
		route:    path,
		url:      origin + path,
	}

	if e.Limiter != nil {
		if err := e.Limiter.Wait(ctx, host); err != nil {
			result.err = err
			return result
		}
	}

	delays := e.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	resp, err := FetchWithRetry(ctx, e.Fetcher, result.url, delays)
	if err != nil {
		result.err = err
		return result
	}
	if !resp.OK() {
		result.err = fmt.Errorf("HTTP %d for %s", resp.StatusCode, result.url)
		return result
	}

	result.markdown = e.Converter.Convert(ctx, result.url, resp)
	return result
}

// stringSet is the exact URLSet used when no Seen set is configured.
type stringSet map[string]struct{}

func (s stringSet) Add(url string) bool {
	if _, ok := s[url]; ok {
		return false
	}
	s[url] = struct{}{}
	return true
}
