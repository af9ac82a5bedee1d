package mock

import (
	"context"

	"github.com/fwojciec/llmready"
)

var (
	_ llmready.Converter     = (*Converter)(nil)
	_ llmready.PageConverter = (*PageConverter)(nil)
)

// Converter is a mock implementation of llmready.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// PageConverter is a mock implementation of llmready.PageConverter.
type PageConverter struct {
	ConvertFn       func(ctx context.Context, url string, resp *llmready.Response) string
	ErrorMarkdownFn func(url string, status int, message string) string
}

func (c *PageConverter) Convert(ctx context.Context, url string, resp *llmready.Response) string {
	return c.ConvertFn(ctx, url, resp)
}

func (c *PageConverter) ErrorMarkdown(url string, status int, message string) string {
	return c.ErrorMarkdownFn(url, status, message)
}
