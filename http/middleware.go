package http

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/fwojciec/llmready"
)

// MarkdownContentType is the Content-Type of every markdown response.
const MarkdownContentType = "text/markdown; charset=UTF-8"

// HeaderLLMReady marks responses produced by llmready.
const HeaderLLMReady = "X-LLM-Ready"

// MaxRedirects bounds the upstream redirects followed for one markdown
// request.
const MaxRedirects = 5

// LLMsTxtPath is the path the llms.txt document is served on.
const LLMsTxtPath = "/llms.txt"

// Middleware serves markdown variants of the pages produced by an upstream
// handler. Paths ending in ".md" and requests with "?format=md" are
// converted; every other request passes through, optionally decorated with
// a Link header advertising the markdown variant.
type Middleware struct {
	Config    *llmready.Config
	Converter llmready.PageConverter
	Filter    llmready.RouteFilter

	// LLMsTxt, when set, serves LLMsTxtPath.
	LLMsTxt http.Handler
}

// NewMiddleware returns a Middleware.
func NewMiddleware(cfg *llmready.Config, converter llmready.PageConverter, filter llmready.RouteFilter) *Middleware {
	return &Middleware{
		Config:    cfg,
		Converter: converter,
		Filter:    filter,
	}
}

// Handler wraps next.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.Config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		path := r.URL.Path
		read := r.Method == http.MethodGet || r.Method == http.MethodHead

		switch {
		case path == LLMsTxtPath && m.LLMsTxt != nil && m.Config.LLMsTxt.Enabled:
			m.LLMsTxt.ServeHTTP(w, r)
		case read && llmready.IsMarkdownPath(path):
			original := llmready.OriginalPath(path)
			if m.excluded(original) {
				md := m.Converter.ErrorMarkdown(Origin(r)+original, http.StatusNotFound, "")
				writeMarkdown(w, r, http.StatusNotFound, md, "")
				return
			}
			m.serveMarkdown(w, r, next, original)
		case read && r.URL.Query().Get("format") == "md" && !m.excluded(path):
			m.serveMarkdown(w, r, next, path)
		case m.Config.LinkHeader:
			mdURL, ok := llmready.MarkdownURL(Origin(r), path, m.Filter)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(&linkHeaderWriter{ResponseWriter: w, link: llmready.LinkHeaderValue(mdURL)}, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (m *Middleware) excluded(path string) bool {
	return m.Filter != nil && m.Filter.ShouldExclude(path)
}

// serveMarkdown renders the upstream page at path as markdown.
func (m *Middleware) serveMarkdown(w http.ResponseWriter, r *http.Request, next http.Handler, path string) {
	rec := capture(r, next, path)

	resp := &llmready.Response{
		StatusCode:  rec.statusCode(),
		ContentType: rec.header.Get("Content-Type"),
		Body:        rec.body.String(),
	}
	md := m.Converter.Convert(r.Context(), Origin(r)+path, resp)

	status := http.StatusOK
	if !resp.OK() {
		status = resp.StatusCode
	}
	writeMarkdown(w, r, status, md, m.Config.Cache.CacheControl())
}

// capture runs next for path and buffers its response, following up to
// MaxRedirects same-host redirects.
func capture(r *http.Request, next http.Handler, path string) *recorder {
	q := r.URL.Query()
	q.Del("format")
	query := q.Encode()
	for i := 0; ; i++ {
		sub := upstreamRequest(r, path, query)
		rec := newRecorder()
		next.ServeHTTP(rec, sub)

		loc := rec.header.Get("Location")
		if i == MaxRedirects || !isRedirect(rec.statusCode()) || loc == "" {
			return rec
		}
		target, err := sub.URL.Parse(loc)
		if err != nil || (target.Host != "" && !strings.EqualFold(target.Host, r.Host)) {
			return rec
		}
		path, query = llmready.NormalizePath(target.Path), target.RawQuery
	}
}

// upstreamRequest clones r as a plain GET for the HTML page at path.
// Conditional and encoding headers are dropped so the body arrives whole
// and uncompressed.
func upstreamRequest(r *http.Request, path, rawQuery string) *http.Request {
	sub := r.Clone(r.Context())
	sub.Method = http.MethodGet
	sub.URL.Path = path
	sub.URL.RawPath = ""
	sub.URL.RawQuery = rawQuery
	sub.RequestURI = sub.URL.RequestURI()
	sub.Header.Set("Accept", "text/html")
	sub.Header.Del("Accept-Encoding")
	sub.Header.Del("If-None-Match")
	sub.Header.Del("If-Modified-Since")
	return sub
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// writeMarkdown writes a markdown response. An empty cacheControl omits the
// Cache-Control header.
func writeMarkdown(w http.ResponseWriter, r *http.Request, status int, md, cacheControl string) {
	h := w.Header()
	h.Set("Content-Type", MarkdownContentType)
	h.Set(HeaderLLMReady, "true")
	if cacheControl != "" {
		h.Set("Cache-Control", cacheControl)
	}
	h.Set("Content-Length", strconv.Itoa(len(md)))
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = io.WriteString(w, md)
	}
}

// Origin returns the scheme and host the client used to reach r.
func Origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return scheme + "://" + r.Host
}

// recorder buffers a response in memory.
type recorder struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newRecorder() *recorder {
	return &recorder{header: make(http.Header)}
}

func (r *recorder) Header() http.Header { return r.header }

// WriteHeader records the first final status. Informational statuses are
// ignored.
func (r *recorder) WriteHeader(status int) {
	if r.status == 0 && status >= http.StatusOK {
		r.status = status
	}
}

func (r *recorder) Write(b []byte) (int, error) {
	r.WriteHeader(http.StatusOK)
	return r.body.Write(b)
}

func (r *recorder) statusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// linkHeaderWriter adds a Link header to successful HTML responses.
type linkHeaderWriter struct {
	http.ResponseWriter
	link        string
	wroteHeader bool
}

func (w *linkHeaderWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.decorate(status, nil)
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *linkHeaderWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.decorate(http.StatusOK, b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *linkHeaderWriter) decorate(status int, sniff []byte) {
	h := w.Header()
	if status >= http.StatusBadRequest || h.Get(HeaderLLMReady) == "true" {
		return
	}
	contentType := h.Get("Content-Type")
	if contentType == "" && sniff != nil {
		contentType = http.DetectContentType(sniff)
	}
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return
	}
	h.Add("Link", w.link)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *linkHeaderWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
