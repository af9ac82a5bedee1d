package main

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/fwojciec/llmready"
	llmhttp "github.com/fwojciec/llmready/http"
)

// Run executes the llms-txt command.
func (c *LLMsTxtCmd) Run(deps *Dependencies) error {
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		err := llmready.Errorf(llmready.EINVALID, "invalid site URL %q", c.URL)
		fmt.Fprintf(deps.Stderr, "error: %s\n", llmready.ErrorMessage(err))
		return err
	}

	h := &llmhttp.LLMsTxtHandler{
		Generator: llmready.NewLLMsTxtGenerator(deps.Config, deps.Filter),
		Routes:    routeSource(deps, c.URL, false),
		Cache:     deps.Cache,
		CacheKey:  deps.Service.SitemapKey(),
		TTL:       deps.Config.LLMsTxt.CacheTTL,
		Logger:    deps.Logger,
	}

	doc := h.Document(deps.Ctx, u.Scheme+"://"+u.Host)
	_, _ = io.WriteString(deps.Stdout, doc)
	if !strings.HasSuffix(doc, "\n") {
		fmt.Fprintln(deps.Stdout)
	}
	return nil
}
