package main_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/llmready"
	main "github.com/fwojciec/llmready/cmd/llmready"
	llmhttp "github.com/fwojciec/llmready/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServeCmd_Handler(t *testing.T) {
	t.Parallel()

	upstream := newSite(t)
	cfg := llmready.DefaultConfig()
	cfg.SiteName = "Acme"
	cfg.Routes = []string{"/", "/about"}
	deps, _, _ := newDeps(t, cfg, nil)

	cmd := &main.ServeCmd{Upstream: upstream.URL}
	handler, err := cmd.Handler(deps)
	require.NoError(t, err)

	proxy := httptest.NewServer(handler)
	t.Cleanup(proxy.Close)

	t.Run("serves markdown variants", func(t *testing.T) {
		t.Parallel()

		resp, body := get(t, proxy.URL+"/about.md")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, llmhttp.MarkdownContentType, resp.Header.Get("Content-Type"))
		assert.Contains(t, body, "url: "+proxy.URL+"/about")
		assert.Contains(t, body, "Body of About.")
	})

	t.Run("passes HTML through with a Link header", func(t *testing.T) {
		t.Parallel()

		resp, body := get(t, proxy.URL+"/about")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "<h1>About</h1>")
		assert.Contains(t, resp.Header.Get("Link"), proxy.URL+"/about.md")
	})

	t.Run("serves llms.txt", func(t *testing.T) {
		t.Parallel()

		resp, body := get(t, proxy.URL+"/llms.txt")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "# Acme")
		assert.Contains(t, body, "- [About]("+proxy.URL+"/about)")
	})

	t.Run("renders upstream errors as markdown", func(t *testing.T) {
		t.Parallel()

		resp, body := get(t, proxy.URL+"/missing.md")

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "# Page Not Found")
	})
}

func TestServeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("rejects an invalid upstream", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(t, llmready.DefaultConfig(), nil)

		cmd := &main.ServeCmd{Upstream: "localhost", Listen: "127.0.0.1:0"}
		err := cmd.Run(deps)

		assert.Equal(t, llmready.EINVALID, llmready.ErrorCode(err))
		assert.Contains(t, stderr.String(), "invalid upstream URL")
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		upstream := newSite(t)
		deps, stdout, _ := newDeps(t, llmready.DefaultConfig(), nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		deps.Ctx = ctx

		cmd := &main.ServeCmd{Upstream: upstream.URL, Listen: "127.0.0.1:0"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Serving "+upstream.URL)
	})
}
