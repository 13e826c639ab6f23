package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a key does not exist or has already expired.
	ErrNotFound = errors.New("cache: key not found")
)

// TransientCache is the short-lived state store used for lockout counters,
// OTP records and account-link stage entries. Values are opaque bytes, one
// payload schema per key namespace.
type TransientCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Update overwrites the value of an existing key. With preserveTTL the
	// remaining TTL is kept untouched, otherwise it is replaced by ttl.
	// Returns ErrNotFound if the key is absent.
	Update(ctx context.Context, key string, value []byte, preserveTTL bool, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
}
