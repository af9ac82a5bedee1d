// Package convert sequences the HTML to Markdown pipeline and caches its
// results.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/llmready"
)

// Ensure Service implements llmready.PageConverter at compile time.
var _ llmready.PageConverter = (*Service)(nil)

// Messages used in error documents.
const (
	MessageNotFound         = "Page not found"
	MessageEmptyResponse    = "Empty response received"
	MessageConversionFailed = "Conversion failed"
)

// NoContentMarkdown is the body served when extraction finds nothing.
const NoContentMarkdown = "# No Content\n\nNo main content could be extracted from this page.\n"

// Service converts upstream HTML responses into Markdown documents.
type Service struct {
	Config      *llmready.Config
	Parser      llmready.Parser
	Metadata    llmready.MetadataReader
	Frontmatter llmready.FrontmatterEncoder
	Eyebrows    llmready.EyebrowMarker
	Extractor   llmready.ContentExtractor
	Converter   llmready.Converter

	// Cache is optional. Caching also requires Config.Cache.Enabled.
	Cache llmready.Cache

	Logger *slog.Logger
	Now    func() time.Time
}

// Convert implements llmready.PageConverter. Error documents are never
// cached.
func (s *Service) Convert(ctx context.Context, url string, resp *llmready.Response) string {
	if resp == nil {
		return s.ErrorMarkdown(url, http.StatusInternalServerError, MessageEmptyResponse)
	}
	if !resp.OK() {
		return s.ErrorMarkdown(url, resp.StatusCode, statusMessage(resp.StatusCode))
	}
	if resp.Body == "" {
		return s.ErrorMarkdown(url, http.StatusInternalServerError, MessageEmptyResponse)
	}

	key := s.CacheKey(url)
	if s.cacheEnabled() {
		cached, err := s.Cache.Get(ctx, key)
		if err == nil {
			return cached
		}
		if llmready.ErrorCode(err) != llmready.ENOTFOUND {
			s.logger().Warn("failed to read markdown cache", "url", url, "err", err)
		}
	}

	markdown, err := s.render(url, resp.Body)
	if err != nil {
		s.logger().Warn("failed to convert HTML to markdown", "url", url, "err", err)
		return s.ErrorMarkdown(url, http.StatusInternalServerError, MessageConversionFailed)
	}

	if s.cacheEnabled() {
		if err := s.Cache.Put(ctx, key, markdown, s.Config.Cache.TTL); err != nil {
			s.logger().Warn("failed to write markdown cache", "url", url, "err", err)
		}
	}
	return markdown
}

// render runs parse, frontmatter, eyebrows, extraction, conversion and
// cleaning. Panics in collaborators are returned as errors.
func (s *Service) render(url, body string) (markdown string, err error) {
	defer func() {
		if r := recover(); r != nil {
			markdown, err = "", llmready.Errorf(llmready.EINTERNAL, "conversion panicked: %v", r)
		}
	}()
	cfg := s.Config

	doc, err := s.Parser.Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}

	fields := llmready.FrontmatterFields(s.Metadata.ReadMetadata(doc), url, s.now(), cfg.Frontmatter)
	frontmatter, err := s.Frontmatter.Encode(fields)
	if err != nil {
		return "", fmt.Errorf("frontmatter: %w", err)
	}

	s.Eyebrows.MarkEyebrows(doc, cfg.EyebrowSelectors, cfg.EyebrowAutoDetect)

	content := s.Extractor.Extract(doc, cfg.ContentSelectors, cfg.IgnoreSelectors)
	if strings.TrimSpace(content) == "" {
		return frontmatter + NoContentMarkdown, nil
	}

	raw, err := s.Converter.Convert(content)
	if err != nil {
		return "", fmt.Errorf("convert: %w", err)
	}

	return frontmatter + llmready.CleanMarkdown(raw), nil
}

// ErrorMarkdown implements llmready.PageConverter.
func (s *Service) ErrorMarkdown(url string, status int, message string) string {
	if message == "" {
		message = MessageNotFound
	}

	frontmatter, err := s.Frontmatter.Encode(llmready.ErrorFields(url, status, message, s.now()))
	if err != nil {
		s.logger().Warn("failed to encode error frontmatter", "url", url, "err", err)
		frontmatter = ""
	}

	var body string
	switch status {
	case http.StatusNotFound:
		body = "# Page Not Found\n\nThe requested page could not be found at this URL.\n"
	case http.StatusInternalServerError:
		body = "# Server Error\n\nAn error occurred while processing this page: " + message + "\n"
	default:
		body = "# " + llmready.ErrorTitle(status) + "\n\n" + message + "\n"
	}
	return frontmatter + body
}

// CacheKey returns the cache key of the markdown for url.
func (s *Service) CacheKey(url string) string {
	return s.Config.Cache.Prefix + ":page:" + hashURL(url)
}

// SitemapKey returns the cache key of the llms.txt document.
func (s *Service) SitemapKey() string {
	return s.Config.Cache.Prefix + ":sitemap"
}

// ClearCache removes the cached markdown for url.
func (s *Service) ClearCache(ctx context.Context, url string) error {
	if s.Cache == nil {
		return nil
	}
	return s.Cache.Forget(ctx, s.CacheKey(url))
}

// ClearSitemapCache removes the cached llms.txt document.
func (s *Service) ClearSitemapCache(ctx context.Context) error {
	if s.Cache == nil {
		return nil
	}
	return s.Cache.Forget(ctx, s.SitemapKey())
}

// ClearAllCache removes every entry under the configured prefix and returns
// the number removed.
func (s *Service) ClearAllCache(ctx context.Context) (int, error) {
	if s.Cache == nil {
		return 0, nil
	}
	return s.Cache.ForgetPrefix(ctx, s.Config.Cache.Prefix+":")
}

func (s *Service) cacheEnabled() bool {
	return s.Cache != nil && s.Config.Cache.Enabled
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// statusMessage describes an upstream error status.
func statusMessage(status int) string {
	if status == http.StatusNotFound {
		return MessageNotFound
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return MessageNotFound
}

// hashURL returns the xxHash of url as hex.
func hashURL(url string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(url))
}
