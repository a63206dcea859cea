// Package storage defines the key-value storage interface backing the
// console's durable and session-scoped state.
package storage

import (
	"context"
	"time"
)

// Store defines the interface for key-value storage operations.
//
// The console uses two instances: a durable store surviving process
// restarts, and a session-scoped store living only as long as the process.
// Writes are synchronous; they complete before the call returns.
type Store interface {
	// Get retrieves a value by key.
	// Returns nil if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value. A zero ttl means the value never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// DeletePattern removes all keys matching the given glob pattern.
	// Returns the number of keys deleted.
	DeletePattern(ctx context.Context, pattern string) (int64, error)

	// Ping checks if the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close closes the storage connection.
	Close() error
}
