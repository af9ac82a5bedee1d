package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/llmready"
	llmhttp "github.com/fwojciec/llmready/http"
	"github.com/fwojciec/llmready/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageHTML = "<html><body><main><h1>About</h1></main></body></html>"

// upstream serves pageHTML for every path and records the requests it saw.
type upstream struct {
	mu       sync.Mutex
	requests []*http.Request
	handler  http.HandlerFunc
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.requests = append(u.requests, r)
	u.mu.Unlock()
	if u.handler != nil {
		u.handler(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, pageHTML)
}

func (u *upstream) paths() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	paths := make([]string, len(u.requests))
	for i, r := range u.requests {
		paths[i] = r.URL.RequestURI()
	}
	return paths
}

// recordingConverter echoes the url and upstream status it was given.
type recordingConverter struct {
	mock.PageConverter
	mu        sync.Mutex
	responses []*llmready.Response
}

func newRecordingConverter() *recordingConverter {
	c := &recordingConverter{}
	c.ConvertFn = func(ctx context.Context, url string, resp *llmready.Response) string {
		c.mu.Lock()
		c.responses = append(c.responses, resp)
		c.mu.Unlock()
		return "# converted " + url + "\n"
	}
	c.ErrorMarkdownFn = func(url string, status int, message string) string {
		return "# error " + url + "\n"
	}
	return c
}

func adminFilter() *mock.RouteFilter {
	return &mock.RouteFilter{
		ShouldExcludeFn: func(path string) bool {
			return strings.HasPrefix(path, "/admin")
		},
	}
}

func newMiddleware(conv llmready.PageConverter) (*llmhttp.Middleware, *llmready.Config) {
	cfg := llmready.DefaultConfig()
	return llmhttp.NewMiddleware(cfg, conv, adminFilter()), cfg
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_MarkdownPath(t *testing.T) {
	t.Parallel()

	t.Run("converts the page behind a .md path", func(t *testing.T) {
		t.Parallel()

		up := &upstream{}
		conv := newRecordingConverter()
		m, _ := newMiddleware(conv)

		rec := serve(m.Handler(up), http.MethodGet, "http://example.com/about.md")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "# converted http://example.com/about\n", rec.Body.String())
		assert.Equal(t, llmhttp.MarkdownContentType, rec.Header().Get("Content-Type"))
		assert.Equal(t, "true", rec.Header().Get(llmhttp.HeaderLLMReady))
		assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
		assert.Equal(t, []string{"/about"}, up.paths())

		require.Len(t, conv.responses, 1)
		assert.Equal(t, http.StatusOK, conv.responses[0].StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", conv.responses[0].ContentType)
		assert.Equal(t, pageHTML, conv.responses[0].Body)
	})

	t.Run("maps index.md to the root page", func(t *testing.T) {
		t.Parallel()

		up := &upstream{}
		m, _ := newMiddleware(newRecordingConverter())

		serve(m.Handler(up), http.MethodGet, "http://example.com/index.md")
		serve(m.Handler(up), http.MethodGet, "http://example.com/blog/index.md")

		assert.Equal(t, []string{"/", "/blog"}, up.paths())
	})

	t.Run("keeps the query string", func(t *testing.T) {
		t.Parallel()

		up := &upstream{}
		m, _ := newMiddleware(newRecordingConverter())

		serve(m.Handler(up), http.MethodGet, "http://example.com/search.md?q=go")

		assert.Equal(t, []string{"/search?q=go"}, up.paths())
	})

	t.Run("strips encoding and conditional headers upstream", func(t *testing.T) {
		t.Parallel()

		up := &upstream{}
		m, _ := newMiddleware(newRecordingConverter())

		req := httptest.NewRequest(http.MethodGet, "http://example.com/about.md", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		req.Header.Set("If-None-Match", `"abc"`)
		m.Handler(up).ServeHTTP(httptest.NewRecorder(), req)

		require.Len(t, up.requests, 1)
		assert.Empty(t, up.requests[0].Header.Get("Accept-Encoding"))
		assert.Empty(t, up.requests[0].Header.Get("If-None-Match"))
		assert.Equal(t, "text/html", up.requests[0].Header.Get("Accept"))
	})

	t.Run("renders a markdown 404 for excluded routes", func(t *testing.T) {
		t.Parallel()

		up := &upstream{}
		m, _ := newMiddleware(newRecordingConverter())

		rec := serve(m.Handler(up), http.MethodGet, "http://example.com/admin/users.md")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "# error http://example.com/admin/users\n", rec.Body.String())
		assert.Equal(t, llmhttp.MarkdownContentType, rec.Header().Get("Content-Type"))
		assert.Equal(t, "true", rec.Header().Get(llmhttp.HeaderLLMReady))
		assert.Empty(t, rec.Header().Get("Cache-Control"))
		assert.Empty(t, up.paths())
	})

	t.Run("passes upstream error statuses through", func(t *testing.T) {
		t.Parallel()

		up := &upstream{handler: func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}}
		conv := newRecordingConverter()
		m, _ := newMiddleware(conv)

		rec := serve(m.Handler(up), http.MethodGet, "http://example.com/missing.md")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		require.Len(t, conv.responses, 1)
		assert.Equal(t, http.StatusNotFound, conv.responses[0].StatusCode)
	})

	t.Run("reports success for redirects that are not followed", func(t *testing.T) {
		t.Parallel()

		up := &upstream{handler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}}
		m, _ := newMiddleware(newRecordingConverter())

		rec := serve(m.Handler(up), http.MethodGet, "http://example.com/empty.md")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("uses no-cache when caching is disabled", func(t *testing.T) {
		t.Parallel()

		m, cfg := newMiddleware(newRecordingConverter())
		cfg.Cache.Enabled = false

		rec := serve(m.Handler(&upstream{}), http.MethodGet, "http://example.com/about.md")

		assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	})

	t.Run("omits the body for HEAD", func(t *testing.T) {
		t.Parallel()

		up := &upstream{}
		m, _ := newMiddleware(newRecordingConverter())

		rec := serve(m.Handler(up), http.MethodHead, "http://example.com/about.md")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("Content-Length"))
		require.Len(t, up.requests, 1)
		assert.Equal(t, http.MethodGet, up.requests[0].Method)
	})

	t.Run("leaves non-read methods alone", func(t *testing.T) {
		t.Parallel()

		up := &upstream{}
		m, _ := newMiddleware(newRecordingConverter())

		rec := serve(m.Handler(up), http.MethodPost, "http://example.com/upload.md")

		assert.Equal(t, pageHTML, rec.Body.String())
		assert.Equal(t, []string{"/upload.md"}, up.paths())
	})

	t.Run("passes through when disabled", func(t *testing.T) {
		t.Parallel()

		up := &upstream{}
		m, cfg := newMiddleware(newRecordingConverter())
		cfg.Enabled = false

		rec := serve(m.Handler(up), http.MethodGet, "http://example.com/about.md")

		assert.Equal(t, pageHTML, rec.Body.String())
		assert.Equal(t, []string{"/about.md"}, up.paths())
	})

	t.Run("uses the forwarded scheme", func(t *testing.T) {
		t.Parallel()

		m, _ := newMiddleware(newRecordingConverter())

		req := httptest.NewRequest(http.MethodGet, "http://example.com/about.md", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		rec := httptest.NewRecorder()
		m.Handler(&upstream{}).ServeHTTP(rec, req)

		assert.Equal(t, "# converted https://example.com/about\n", rec.Body.String())
	})
}

func TestMiddleware_Redirects(t *testing.T) {
	t.Parallel()

	t.Run("follows same-host redirects", func(t *testing.T) {
		t.Parallel()

		up := &upstream{}
		up.handler = func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/old":
				http.Redirect(w, r, "/older", http.StatusMovedPermanently)
			case "/older":
				http.Redirect(w, r, "http://example.com/new?page=2", http.StatusFound)
			default:
				w.Header().Set("Content-Type", "text/html")
				_, _ = io.WriteString(w, pageHTML)
			}
		}
		conv := newRecordingConverter()
		m, _ := newMiddleware(conv)

		rec := serve(m.Handler(up), http.MethodGet, "http://example.com/old.md")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"/old", "/older", "/new?page=2"}, up.paths())
		require.Len(t, conv.responses, 1)
		assert.Equal(t, pageHTML, conv.responses[0].Body)
	})

	t.Run("stops after the redirect limit", func(t *testing.T) {
		t.Parallel()

		up := &upstream{handler: func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/loop", http.StatusFound)
		}}
		m, _ := newMiddleware(newRecordingConverter())

		serve(m.Handler(up), http.MethodGet, "http://example.com/loop.md")

		assert.Len(t, up.paths(), llmhttp.MaxRedirects+1)
	})

	t.Run("does not follow redirects to other hosts", func(t *testing.T) {
		t.Parallel()

		up := &upstream{handler: func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "https://elsewhere.example/", http.StatusFound)
		}}
		conv := newRecordingConverter()
		m, _ := newMiddleware(conv)

		serve(m.Handler(up), http.MethodGet, "http://example.com/away.md")

		assert.Equal(t, []string{"/away"}, up.paths())
		require.Len(t, conv.responses, 1)
		assert.Equal(t, http.StatusFound, conv.responses[0].StatusCode)
	})
}

func TestMiddleware_FormatQuery(t *testing.T) {
	t.Parallel()

	t.Run("converts pages requested with format=md", func(t *testing.T) {
		t.Parallel()

		up := &upstream{}
		m, _ := newMiddleware(newRecordingConverter())

		rec := serve(m.Handler(up), http.MethodGet, "http://example.com/about?format=md&lang=en")

		assert.Equal(t, "# converted http://example.com/about\n", rec.Body.String())
		assert.Equal(t, []string{"/about?lang=en"}, up.paths())
	})

	t.Run("passes excluded routes through", func(t *testing.T) {
		t.Parallel()

		up := &upstream{}
		m, _ := newMiddleware(newRecordingConverter())

		rec := serve(m.Handler(up), http.MethodGet, "http://example.com/admin?format=md")

		assert.Equal(t, pageHTML, rec.Body.String())
		assert.Empty(t, rec.Header().Get(llmhttp.HeaderLLMReady))
	})
}

func TestMiddleware_LinkHeader(t *testing.T) {
	t.Parallel()

	const want = `<http://example.com/about.md>; rel="alternate"; type="text/markdown"`

	t.Run("advertises the markdown variant of HTML pages", func(t *testing.T) {
		t.Parallel()

		m, _ := newMiddleware(newRecordingConverter())

		rec := serve(m.Handler(&upstream{}), http.MethodGet, "http://example.com/about")

		assert.Equal(t, want, rec.Header().Get("Link"))
		assert.Equal(t, pageHTML, rec.Body.String())
	})

	t.Run("advertises index.md for the root page", func(t *testing.T) {
		t.Parallel()

		m, _ := newMiddleware(newRecordingConverter())

		rec := serve(m.Handler(&upstream{}), http.MethodGet, "http://example.com/")

		assert.Equal(t, `<http://example.com/index.md>; rel="alternate"; type="text/markdown"`, rec.Header().Get("Link"))
	})

	t.Run("sniffs the content type when none is set", func(t *testing.T) {
		t.Parallel()

		up := &upstream{handler: func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "<!DOCTYPE html><html><body>hi</body></html>")
		}}
		m, _ := newMiddleware(newRecordingConverter())

		rec := serve(m.Handler(up), http.MethodGet, "http://example.com/about")

		assert.Equal(t, want, rec.Header().Get("Link"))
	})

	t.Run("skips non-HTML responses", func(t *testing.T) {
		t.Parallel()

		up := &upstream{handler: func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, "{}")
		}}
		m, _ := newMiddleware(newRecordingConverter())

		rec := serve(m.Handler(up), http.MethodGet, "http://example.com/about")

		assert.Empty(t, rec.Header().Get("Link"))
	})

	t.Run("skips error responses", func(t *testing.T) {
		t.Parallel()

		up := &upstream{handler: func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusInternalServerError)
		}}
		m, _ := newMiddleware(newRecordingConverter())

		rec := serve(m.Handler(up), http.MethodGet, "http://example.com/about")

		assert.Empty(t, rec.Header().Get("Link"))
	})

	t.Run("skips excluded routes", func(t *testing.T) {
		t.Parallel()

		m, _ := newMiddleware(newRecordingConverter())

		rec := serve(m.Handler(&upstream{}), http.MethodGet, "http://example.com/admin/login")

		assert.Empty(t, rec.Header().Get("Link"))
	})

	t.Run("can be turned off", func(t *testing.T) {
		t.Parallel()

		m, cfg := newMiddleware(newRecordingConverter())
		cfg.LinkHeader = false

		rec := serve(m.Handler(&upstream{}), http.MethodGet, "http://example.com/about")

		assert.Empty(t, rec.Header().Get("Link"))
	})
}

func TestMiddleware_LLMsTxt(t *testing.T) {
	t.Parallel()

	llms := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "# Site\n")
	})

	t.Run("routes llms.txt to its handler", func(t *testing.T) {
		t.Parallel()

		up := &upstream{}
		m, _ := newMiddleware(newRecordingConverter())
		m.LLMsTxt = llms

		rec := serve(m.Handler(up), http.MethodGet, "http://example.com/llms.txt")

		assert.Equal(t, "# Site\n", rec.Body.String())
		assert.Empty(t, up.paths())
	})

	t.Run("passes llms.txt through when disabled", func(t *testing.T) {
		t.Parallel()

		up := &upstream{}
		m, cfg := newMiddleware(newRecordingConverter())
		m.LLMsTxt = llms
		cfg.LLMsTxt.Enabled = false

		serve(m.Handler(up), http.MethodGet, "http://example.com/llms.txt")

		assert.Equal(t, []string{"/llms.txt"}, up.paths())
	})
}
