package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/llmready"
)

// Ensure LoggingPageConverter implements llmready.PageConverter.
var _ llmready.PageConverter = (*LoggingPageConverter)(nil)

// LoggingPageConverter wraps a PageConverter with logging.
type LoggingPageConverter struct {
	next   llmready.PageConverter
	logger *slog.Logger
}

// NewLoggingPageConverter creates a new LoggingPageConverter.
func NewLoggingPageConverter(next llmready.PageConverter, logger *slog.Logger) *LoggingPageConverter {
	return &LoggingPageConverter{next: next, logger: logger}
}

// Convert delegates to the wrapped converter and logs the operation.
func (c *LoggingPageConverter) Convert(ctx context.Context, url string, resp *llmready.Response) (markdown string) {
	defer func(begin time.Time) {
		var status, size int
		if resp != nil {
			status, size = resp.StatusCode, len(resp.Body)
		}
		c.logger.Info("convert",
			"url", url,
			"status", status,
			"bytes", size,
			"markdown_bytes", len(markdown),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.Convert(ctx, url, resp)
}

// ErrorMarkdown delegates to the wrapped converter.
func (c *LoggingPageConverter) ErrorMarkdown(url string, status int, message string) string {
	c.logger.Debug("error document", "url", url, "status", status)
	return c.next.ErrorMarkdown(url, status, message)
}
