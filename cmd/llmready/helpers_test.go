package main_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/fwojciec/llmready"
	main "github.com/fwojciec/llmready/cmd/llmready"
	"github.com/fwojciec/llmready/glob"
	llmhttp "github.com/fwojciec/llmready/http"
	"github.com/stretchr/testify/require"
)

// newDeps wires real services around cfg and cache with output captured in
// the returned buffers.
func newDeps(t *testing.T, cfg *llmready.Config, cache llmready.Cache) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	filter, err := glob.NewRouteFilter(cfg.ExcludePatterns)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := main.NewService(cfg, cache, logger)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:      context.Background(),
		Stdout:   stdout,
		Stderr:   stderr,
		Logger:   logger,
		Config:   cfg,
		Cache:    cache,
		Filter:   filter,
		Service:  svc,
		Pages:    svc,
		Fetcher:  llmhttp.NewFetcher(),
		Sitemaps: llmhttp.NewSitemapService(nil),
	}, stdout, stderr
}

const helloHTML = `<!DOCTYPE html>
<html>
<head><title>Hello</title></head>
<body>
<nav><a href="/">Home</a></nav>
<main><h1>Hello</h1><p>World paragraph.</p></main>
</body>
</html>`
