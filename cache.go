package llmready

import (
	"context"
	"time"
)

// Cache stores converted documents by key.
type Cache interface {
	// Get returns the value stored under key.
	// Returns ENOTFOUND if the key is missing or expired.
	Get(ctx context.Context, key string) (string, error)

	// Put stores value under key. A zero ttl never expires.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Forget removes key. Missing keys are not an error.
	Forget(ctx context.Context, key string) error

	// ForgetPrefix removes every key starting with prefix and returns the
	// number of removed entries.
	ForgetPrefix(ctx context.Context, prefix string) (int, error)
}
