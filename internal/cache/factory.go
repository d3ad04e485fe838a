package cache

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ProviderConfig holds the configuration needed to create a cache instance.
type ProviderConfig struct {
	// Size is the maximum number of entries for LRU-backed providers. 0 means unbounded.
	Size int

	// TTL is the time-to-live for entries of providers that support expiry. 0 means entries never expire.
	TTL time.Duration

	// Dir is the backing directory of the file and badger providers. It is created on demand.
	Dir string

	// OnEvict is called when an entry is evicted. Not all providers support this.
	OnEvict EvictCallback

	// Logger receives reports of backend errors that cannot be returned to the caller. If nil, they are dropped.
	Logger *zerolog.Logger

	// RedisAddress is the Redis/Valkey server address (e.g., "localhost:6379").
	RedisAddress string

	// RedisKeyPrefix namespaces the provider's keys. Defaults to "vmi:".
	RedisKeyPrefix string

	// RedisPassword is the password for the Redis/Valkey server.
	RedisPassword string

	// RedisDB is the Redis/Valkey database number.
	RedisDB int

	// Group is an optional label value used to namespace Prometheus metrics
	// (cache_hits_total, cache_misses_total, cache_errors_total, etc.).
	// When non-empty the cache is automatically wrapped with metric instrumentation.
	Group string
}

// Provider is a constructor function that creates a Cache from config.
type Provider func(cfg ProviderConfig) (Cache, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Provider)
)

// Register makes a provider available to New under name. Names are
// case-insensitive. It panics on a nil provider or a duplicate name, since
// both can only happen during package initialization.
func Register(name string, p Provider) {
	key := normalizeProviderName(name)

	registryMu.Lock()
	defer registryMu.Unlock()

	if p == nil {
		panic("cache: Register provider is nil")
	}
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("cache: provider %q already registered", key))
	}
	registry[key] = p
}

// New creates a cache with the named provider. A non-empty cfg.Group wraps the
// result with metric instrumentation labelled by the group, and evictions are
// counted before the caller's OnEvict runs.
func New(name string, cfg ProviderConfig) (Cache, error) {
	key := normalizeProviderName(name)

	registryMu.RLock()
	p, ok := registry[key]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("cache: unknown provider %q (registered: %v)", name, RegisteredProviders())
	}

	if cfg.Size < 0 {
		return nil, fmt.Errorf("cache: negative size %d", cfg.Size)
	}
	if cfg.TTL < 0 {
		return nil, fmt.Errorf("cache: negative ttl %s", cfg.TTL)
	}

	if cfg.Group == "" {
		return p(cfg)
	}

	cfg.OnEvict = countEvictions(cfg.Group, cfg.OnEvict)
	inner, err := p(cfg)
	if err != nil {
		return nil, err
	}
	return newInstrumentedCache(inner, cfg.Group), nil
}

// RegisteredProviders returns the registered provider names in sorted order.
func RegisteredProviders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func countEvictions(group string, next EvictCallback) EvictCallback {
	return func(key string, value []byte) {
		EvictionsTotal.WithLabelValues(group).Inc()
		if next != nil {
			next(key, value)
		}
	}
}

func normalizeProviderName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
