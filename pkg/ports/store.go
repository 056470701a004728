package ports

import "context"

// KVStore is a string key-value store.
type KVStore interface {
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Get returns the value for key.
	// Returns domain.ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
