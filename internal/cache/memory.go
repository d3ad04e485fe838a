package cache

import (
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register("memory", newMemoryCache)
}

// memoryCache keeps entries in a process-local LRU. Nothing survives a restart,
// which makes it suitable for tests and one-off runs.
type memoryCache struct {
	inner *lru.LRU[string, []byte]
}

func newMemoryCache(cfg ProviderConfig) (Cache, error) {
	var onEvict lru.EvictCallback[string, []byte]
	if cfg.OnEvict != nil {
		onEvict = func(key string, value []byte) {
			cfg.OnEvict(key, value)
		}
	}
	// A zero size is unbounded and a zero TTL never expires
	return &memoryCache{
		inner: lru.NewLRU[string, []byte](cfg.Size, onEvict, cfg.TTL),
	}, nil
}

func (m *memoryCache) Get(key string) ([]byte, bool, error) {
	val, ok := m.inner.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), val...), true, nil
}

func (m *memoryCache) Set(key string, value []byte) error {
	m.inner.Add(key, append([]byte(nil), value...))
	return nil
}

func (m *memoryCache) Contains(key string) bool {
	return m.inner.Contains(key)
}

// Delete removes key. The LRU reports explicit removals through OnEvict as well.
func (m *memoryCache) Delete(key string) (bool, error) {
	return m.inner.Remove(key), nil
}

func (m *memoryCache) Len() int {
	return m.inner.Len()
}

func (m *memoryCache) Close() error {
	return nil
}
