package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/fwojciec/llmready"
	llmhttp "github.com/fwojciec/llmready/http"
)

// ShutdownTimeout bounds how long in-flight requests may take to finish
// once the server is asked to stop.
const ShutdownTimeout = 10 * time.Second

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	handler, err := c.Handler(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", llmready.ErrorMessage(err))
		return err
	}

	ln, err := net.Listen("tcp", c.Listen)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return deps.Ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	fmt.Fprintf(deps.Stdout, "Serving %s on http://%s\n", c.Upstream, ln.Addr())

	select {
	case err := <-errc:
		return err
	case <-deps.Ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the upstream reverse proxy wrapped by the markdown
// middleware.
func (c *ServeCmd) Handler(deps *Dependencies) (http.Handler, error) {
	upstream, err := url.Parse(c.Upstream)
	if err != nil || upstream.Scheme == "" || upstream.Host == "" {
		return nil, llmready.Errorf(llmready.EINVALID, "invalid upstream URL %q", c.Upstream)
	}

	proxy := httputil.NewSingleHostReverseProxy(upstream)
	proxy.ErrorLog = slog.NewLogLogger(deps.Logger.Handler(), slog.LevelWarn)

	mw := llmhttp.NewMiddleware(deps.Config, deps.Pages, deps.Filter)
	mw.LLMsTxt = &llmhttp.LLMsTxtHandler{
		Generator: llmready.NewLLMsTxtGenerator(deps.Config, deps.Filter),
		Routes:    routeSource(deps, c.Upstream, false),
		Cache:     deps.Cache,
		CacheKey:  deps.Service.SitemapKey(),
		TTL:       deps.Config.LLMsTxt.CacheTTL,
		Logger:    deps.Logger,
	}
	return mw.Handler(proxy), nil
}
