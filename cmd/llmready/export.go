package main

import (
	"fmt"
	"net/url"

	"github.com/fwojciec/llmready"
	"github.com/fwojciec/llmready/bloom"
	"github.com/fwojciec/llmready/export"
	"github.com/fwojciec/llmready/fs"
	llmhttp "github.com/fwojciec/llmready/http"
)

// seenEstimate sizes the export dedupe filter.
const seenEstimate = 10000

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		err := llmready.Errorf(llmready.EINVALID, "invalid site URL %q", c.URL)
		fmt.Fprintf(deps.Stderr, "error: %s\n", llmready.ErrorMessage(err))
		return err
	}

	name := c.Name
	if name == "" {
		name = u.Hostname()
	}
	store := fs.NewFileStore(c.Output, name)

	exporter := &export.Exporter{
		Routes:      routeSource(deps, c.URL, c.Sitemap),
		Fetcher:     deps.Fetcher,
		Converter:   deps.Pages,
		Store:       store,
		Filter:      deps.Filter,
		Robots:      llmhttp.NewRobotsChecker(nil, llmhttp.DefaultUserAgent),
		Limiter:     export.NewDomainLimiter(c.RPS, 1),
		Seen:        bloom.NewFilter(seenEstimate, 0.001),
		Concurrency: c.Concurrency,
	}
	if deps.Config.LLMsTxt.Enabled {
		exporter.LLMsTxt = llmready.NewLLMsTxtGenerator(deps.Config, deps.Filter)
	}

	progress := func(p llmready.ExportProgress) {
		if p.Error != nil {
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", p.URL, p.Error)
		}
	}

	result, err := exporter.Export(deps.Ctx, c.URL, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error exporting: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d pages (%s) to %s\n", result.Saved, FormatBytes(result.Bytes), store.Dir())
	if result.Skipped > 0 || result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, "  %d excluded, %d failed\n", result.Skipped, result.Failed)
	}
	return nil
}
