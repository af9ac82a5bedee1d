package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/llmready"
)

// LLMsTxtHandler serves the llms.txt document for the requesting origin.
type LLMsTxtHandler struct {
	Generator *llmready.LLMsTxtGenerator
	Routes    llmready.RouteSource

	// Cache is optional. Documents are stored under CacheKey for TTL.
	Cache    llmready.Cache
	CacheKey string
	TTL      time.Duration

	Logger *slog.Logger
}

// ServeHTTP implements http.Handler.
func (h *LLMsTxtHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	doc := h.Document(r.Context(), Origin(r))

	hdr := w.Header()
	hdr.Set("Content-Type", MarkdownContentType)
	hdr.Set(HeaderLLMReady, "true")
	hdr.Set("Cache-Control", "public, max-age="+strconv.Itoa(int(h.TTL/time.Second)))
	hdr.Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = io.WriteString(w, doc)
	}
}

// Document returns the cached llms.txt document or generates and caches a
// new one for baseURL. A failing route source yields an uncached document
// without the auto-generated section.
func (h *LLMsTxtHandler) Document(ctx context.Context, baseURL string) string {
	if h.Cache != nil {
		doc, err := h.Cache.Get(ctx, h.CacheKey)
		if err == nil {
			return doc
		}
		if llmready.ErrorCode(err) != llmready.ENOTFOUND {
			h.logger().Warn("failed to read llms.txt from cache", "key", h.CacheKey, "err", err)
		}
	}

	var routes []string
	var routesErr error
	if h.Routes != nil {
		routes, routesErr = h.Routes.Routes(ctx)
		if routesErr != nil {
			h.logger().Warn("failed to list routes", "err", routesErr)
		}
	}

	doc := h.Generator.Generate(baseURL, routes)

	if h.Cache != nil && routesErr == nil {
		if err := h.Cache.Put(ctx, h.CacheKey, doc, h.TTL); err != nil {
			h.logger().Warn("failed to cache llms.txt", "key", h.CacheKey, "err", err)
		}
	}
	return doc
}

func (h *LLMsTxtHandler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
