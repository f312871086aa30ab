package cache

import (
	"context"
	"time"
)

// Store is the raw key/value backend behind Cache. Implementations must be
// atomic per key; nothing else is assumed.
type Store interface {
	// Get reports found=false on a miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}
