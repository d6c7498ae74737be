package cache

import (
	"context"
	"time"
)

// Store is the key/value cache used for built menu trees.
type Store interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, keys ...string) error
	// PurgeExpired removes entries past their expiry and reports how many went.
	PurgeExpired(ctx context.Context) (int64, error)
}
