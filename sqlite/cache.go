package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/llmready"
)

// Compile-time interface verification.
var _ llmready.Cache = (*Cache)(nil)

// Cache implements llmready.Cache using SQLite. Expired entries are
// removed lazily on read and in bulk by DeleteExpired.
type Cache struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewCache creates a new Cache.
func NewCache(db *DB) *Cache {
	return &Cache{db: db, Now: time.Now}
}

func (c *Cache) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Get returns the value stored under key.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	var value string
	var expiresAt int64
	err := c.db.QueryRowContext(ctx, `
		SELECT value, expires_at FROM cache_entries WHERE key = ?
	`, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", llmready.Errorf(llmready.ENOTFOUND, "cache entry not found: %s", key)
	}
	if err != nil {
		return "", err
	}

	if expiresAt != 0 && c.now().UnixNano() >= expiresAt {
		if err := c.Forget(ctx, key); err != nil {
			return "", err
		}
		return "", llmready.Errorf(llmready.ENOTFOUND, "cache entry expired: %s", key)
	}

	return value, nil
}

// Put stores value under key, replacing any existing entry.
func (c *Cache) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return llmready.Errorf(llmready.EINVALID, "cache key required")
	}
	if ttl < 0 {
		return llmready.Errorf(llmready.EINVALID, "cache ttl must not be negative")
	}

	now := c.now().UTC()
	var expiresAt int64
	if ttl > 0 {
		expiresAt = now.Add(ttl).UnixNano()
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, value_hash, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			value_hash = excluded.value_hash,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`, key, value, hashContent(value), expiresAt, now.Format(time.RFC3339))

	return err
}

// Forget removes key.
func (c *Cache) Forget(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
	return err
}

// ForgetPrefix removes every key starting with prefix.
func (c *Cache) ForgetPrefix(ctx context.Context, prefix string) (int, error) {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM cache_entries WHERE key LIKE ? ESCAPE '\'
	`, prefixPattern(prefix))
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// DeleteExpired removes every expired entry and returns how many were removed.
func (c *Cache) DeleteExpired(ctx context.Context) (int, error) {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM cache_entries WHERE expires_at != 0 AND expires_at <= ?
	`, c.now().UnixNano())
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
