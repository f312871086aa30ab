package cache

import (
	"context"
	"log/slog"
	"time"
)

// Cache is a read-through cache over a Store. The backing store is never the
// source of truth: read failures degrade to misses and write failures are
// logged.
type Cache struct {
	store  Store
	prefix string
	codec  *codec
	logger *slog.Logger
}

func New(store Store, prefix string, logger *slog.Logger) (*Cache, error) {
	c, err := newCodec()
	if err != nil {
		return nil, err
	}

	return &Cache{
		store:  store,
		prefix: prefix,
		codec:  c,
		logger: logger,
	}, nil
}

// ReadThrough returns the cached value under key, or calls loader, caches its
// result for ttl and returns it. Loader errors are returned and nothing is
// cached. Concurrent misses each call loader.
func ReadThrough[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, loader func(context.Context) (T, error)) (T, error) {
	fullKey := c.prefix + key

	var cached T
	if c.lookup(ctx, fullKey, &cached) {
		return cached, nil
	}

	value, err := loader(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.save(ctx, fullKey, value, ttl)
	return value, nil
}

func (c *Cache) lookup(ctx context.Context, fullKey string, dest any) bool {
	data, found, err := c.store.Get(ctx, fullKey)
	if err != nil {
		c.logger.WarnContext(ctx, "cache read failed", "key", fullKey, "error", err)
		return false
	}
	if !found {
		c.logger.DebugContext(ctx, "cache miss", "key", fullKey)
		return false
	}

	if err := c.codec.unmarshal(data, dest); err != nil {
		c.logger.WarnContext(ctx, "cache entry undecodable", "key", fullKey, "error", err)
		return false
	}
	return true
}

func (c *Cache) save(ctx context.Context, fullKey string, value any, ttl time.Duration) {
	data, err := c.codec.marshal(value)
	if err != nil {
		c.logger.WarnContext(ctx, "cache entry unencodable", "key", fullKey, "error", err)
		return
	}

	if err := c.store.Set(ctx, fullKey, data, ttl); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", "key", fullKey, "error", err)
	}
}

// Invalidate removes the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	fullKeys := make([]string, len(keys))
	for i, key := range keys {
		fullKeys[i] = c.prefix + key
	}
	return c.store.Delete(ctx, fullKeys...)
}

// InvalidatePrefix removes every key starting with prefix.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) error {
	return c.store.DeletePrefix(ctx, c.prefix+prefix)
}
