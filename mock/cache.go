package mock

import (
	"context"
	"time"

	"github.com/fwojciec/llmready"
)

var _ llmready.Cache = (*Cache)(nil)

// Cache is a mock implementation of llmready.Cache.
type Cache struct {
	GetFn          func(ctx context.Context, key string) (string, error)
	PutFn          func(ctx context.Context, key, value string, ttl time.Duration) error
	ForgetFn       func(ctx context.Context, key string) error
	ForgetPrefixFn func(ctx context.Context, prefix string) (int, error)
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.GetFn(ctx, key)
}

func (c *Cache) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.PutFn(ctx, key, value, ttl)
}

func (c *Cache) Forget(ctx context.Context, key string) error {
	return c.ForgetFn(ctx, key)
}

func (c *Cache) ForgetPrefix(ctx context.Context, prefix string) (int, error) {
	return c.ForgetPrefixFn(ctx, prefix)
}
