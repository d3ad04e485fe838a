// Package cache provides byte-level key-value backends for persisted entities.
// Providers register themselves by name and are created through New.
package cache

// EvictCallback is called when an entry is evicted from the cache.
// Only size-bounded providers evict; the file and badger providers never do.
type EvictCallback func(key string, value []byte)

// Cache defines the interface for a key-value store of serialized entities.
// Keys are stable external identifiers.
type Cache interface {
	// Get retrieves a value by key. A miss is reported as (nil, false, nil);
	// the error is reserved for backend failures.
	Get(key string) ([]byte, bool, error)

	// Set stores a value with the given key, replacing any existing entry.
	Set(key string, value []byte) error

	// Contains checks whether a key exists without reading its value.
	Contains(key string) bool

	// Delete removes the entry for key and reports whether one existed.
	Delete(key string) (bool, error)

	// Len returns the number of entries currently stored.
	Len() int

	// Close releases any resources held by the cache (connections, file handles).
	Close() error
}
