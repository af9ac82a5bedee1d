package goquery_test

import (
	"testing"

	"github.com/fwojciec/llmready/goquery"
	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
)

func TestDefaultExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("first successful selector wins", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<main><p>main</p></main><article><p>article</p></article>`)
		e := &goquery.DefaultExtractor{}

		got := e.Extract(doc, []string{"article", "main"}, nil)

		assert.Equal(t, "<p>article</p>", got)
	})

	t.Run("returns only the first match", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<article><p>one</p></article><article><p>two</p></article>`)
		e := &goquery.DefaultExtractor{}

		got := e.Extract(doc, []string{"article"}, nil)

		assert.Equal(t, "<p>one</p>", got)
	})

	t.Run("removes ignored elements nested in content", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<article><nav><a href="/">Home</a></nav><p>Body</p><div aria-hidden="true">x</div></article>`)
		e := &goquery.DefaultExtractor{}

		got := e.Extract(doc, []string{"article"}, []string{"nav", `[aria-hidden="true"]`})

		assert.Equal(t, "<p>Body</p>", got)
	})

	t.Run("removes ignored elements before body fallback", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<header>Site</header><div>Hello</div><footer>bye</footer>`)
		e := &goquery.DefaultExtractor{}

		got := e.Extract(doc, []string{"main"}, []string{"header", "footer"})

		assert.Equal(t, "<div>Hello</div>", got)
	})

	t.Run("skips malformed selectors", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<article>text</article>`)
		e := &goquery.DefaultExtractor{}

		got := e.Extract(doc, []string{"[[", "article"}, []string{"div["})

		assert.Equal(t, "text", got)
	})

	t.Run("empty match falls through to next selector", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<main> </main><article>text</article>`)
		e := &goquery.DefaultExtractor{}

		got := e.Extract(doc, []string{"main", "article"}, nil)

		assert.Equal(t, "text", got)
	})

	t.Run("falls back to body", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<div class="page"><p>Hi</p></div>`)
		e := &goquery.DefaultExtractor{}

		got := e.Extract(doc, []string{"main", ".content"}, nil)

		assert.Equal(t, `<div class="page"><p>Hi</p></div>`, got)
	})

	t.Run("returns empty without body", func(t *testing.T) {
		t.Parallel()

		doc := &html.Node{Type: html.DocumentNode}
		e := &goquery.DefaultExtractor{}

		assert.Empty(t, e.Extract(doc, []string{"main"}, nil))
	})

	t.Run("returns empty for nil document", func(t *testing.T) {
		t.Parallel()

		e := &goquery.DefaultExtractor{}

		assert.Empty(t, e.Extract(nil, []string{"main"}, []string{"nav"}))
	})
}

func TestFallbackExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("ignores selectors", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<nav>n</nav><main>m</main>`)
		e := &goquery.FallbackExtractor{}

		got := e.Extract(doc, []string{"main"}, []string{"nav"})

		assert.Equal(t, "<nav>n</nav><main>m</main>", got)
	})

	t.Run("returns empty without body", func(t *testing.T) {
		t.Parallel()

		e := &goquery.FallbackExtractor{}

		assert.Empty(t, e.Extract(&html.Node{Type: html.DocumentNode}, nil, nil))
	})
}
