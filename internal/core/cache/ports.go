package cache

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when the key does not exist or has expired.
var ErrKeyNotFound = errors.New("key not found")

// Cache defines the caching operations used by rate quoting and the poll run lock.
type Cache interface {
	// Get retrieves a value by key. Missing keys return an error wrapping ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the specified TTL. TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX stores a value only if the key is absent and reports whether it was stored.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// CompareAndDelete removes key only while it still holds value and reports whether it did.
	CompareAndDelete(ctx context.Context, key string, value []byte) (bool, error)

	// CompareAndExpire resets key's TTL only while it still holds value and reports whether it did.
	CompareAndExpire(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Ping checks if the cache service is reachable.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}
