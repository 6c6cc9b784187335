// Package kvstore defines the TTL-capable key/value contract backing the
// recovery-token service, with an in-process implementation and a Redis
// implementation that are interchangeable behind the same interface.
package kvstore

import (
	"context"
	"time"
)

// Store is a key/value store with native TTL support. Per-key operations are
// atomic: a reader never observes a partially applied write.
type Store interface {
	// Set upserts value under key with the given time-to-live.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// TryGet returns the value for key, or ok=false when the key is absent
	// or its TTL has elapsed.
	TryGet(ctx context.Context, key string) (string, bool, error)

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
