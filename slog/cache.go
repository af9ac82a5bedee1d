package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/llmready"
)

// Ensure LoggingCache implements llmready.Cache.
var _ llmready.Cache = (*LoggingCache)(nil)

// LoggingCache wraps a Cache with debug logging. Misses are logged as
// hit=false rather than as errors.
type LoggingCache struct {
	next   llmready.Cache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next llmready.Cache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

func (c *LoggingCache) Get(ctx context.Context, key string) (value string, err error) {
	defer func(begin time.Time) {
		attrs := []any{"key", key, "hit", err == nil, "duration", time.Since(begin)}
		if err != nil && llmready.ErrorCode(err) != llmready.ENOTFOUND {
			attrs = append(attrs, "err", err)
		}
		c.logger.Debug("cache get", attrs...)
	}(time.Now())
	return c.next.Get(ctx, key)
}

func (c *LoggingCache) Put(ctx context.Context, key, value string, ttl time.Duration) (err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache put",
			"key", key,
			"bytes", len(value),
			"ttl", ttl,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Put(ctx, key, value, ttl)
}

func (c *LoggingCache) Forget(ctx context.Context, key string) (err error) {
	defer func(begin time.Time) {
		c.logger.Info("cache forget",
			"key", key,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Forget(ctx, key)
}

func (c *LoggingCache) ForgetPrefix(ctx context.Context, prefix string) (n int, err error) {
	defer func(begin time.Time) {
		c.logger.Info("cache forget prefix",
			"prefix", prefix,
			"count", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.ForgetPrefix(ctx, prefix)
}
