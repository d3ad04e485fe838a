package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// defaultKeyPrefix namespaces all cache keys in Redis to avoid collisions.
	defaultKeyPrefix = "vmi:"

	redisOpTimeout = 2 * time.Second
)

func init() {
	Register("redis", newRedisCache)
}

// redisCache stores entries in Redis/Valkey so several hosts can share one
// cache of scraped entities.
//
// Data lives in two keys regardless of the number of entries:
//
//   - {prefix}data: a Hash of serialized entities (field = external id).
//     When a TTL is configured, per-field expiry is set with HPEXPIRE, which
//     needs Redis 7.4+ or Valkey 8+.
//   - {prefix}lru: a Sorted Set of last-access µs timestamps, used to evict
//     the least recently used entries when a size bound is configured.
//
// Lua scripts keep each Get (touch) and Set (write + evict) atomic.
type redisCache struct {
	client  *redis.Client
	ttl     time.Duration
	maxSize int
	onEvict EvictCallback
	logger  *zerolog.Logger
	dataKey string
	lruKey  string
}

// getAndTouch atomically retrieves a value from the hash and refreshes
// the LRU score when the entry exists.
//
// KEYS[1] = data hash, KEYS[2] = LRU sorted set
// ARGV[1] = current µs timestamp, ARGV[2] = member (external id)
var getAndTouch = redis.NewScript(`
local val = redis.call('HGET', KEYS[1], ARGV[2])
if val then
    redis.call('ZADD', KEYS[2], ARGV[1], ARGV[2])
end
return val
`)

// setAndEvict atomically stores a value, applies the optional per-field TTL,
// updates LRU tracking and, when maxSize is positive, evicts the least
// recently used entries above it.
//
// KEYS[1] = data hash, KEYS[2] = LRU sorted set
// ARGV[1] = value, ARGV[2] = current µs timestamp, ARGV[3] = member,
// ARGV[4] = maxSize (0 = unbounded), ARGV[5] = TTL in ms (0 = none)
//
// Returns the evicted members (may be empty).
var setAndEvict = redis.NewScript(`
local member  = ARGV[3]
local maxSize = tonumber(ARGV[4])
local ttlMs   = tonumber(ARGV[5])

redis.call('HSET', KEYS[1], member, ARGV[1])
if ttlMs > 0 then
    redis.call('HPEXPIRE', KEYS[1], ttlMs, 'FIELDS', 1, member)
end
redis.call('ZADD', KEYS[2], ARGV[2], member)

local evicted = {}
if maxSize > 0 then
    local size = redis.call('ZCARD', KEYS[2])
    while size > maxSize do
        local oldest = redis.call('ZPOPMIN', KEYS[2], 1)
        if #oldest == 0 then break end
        redis.call('HDEL', KEYS[1], oldest[1])
        table.insert(evicted, oldest[1])
        size = size - 1
    end
end
return evicted
`)

// deleteEntry removes a member from both keys and returns the HDEL count.
//
// KEYS[1] = data hash, KEYS[2] = LRU sorted set, ARGV[1] = member
var deleteEntry = redis.NewScript(`
redis.call('ZREM', KEYS[2], ARGV[1])
return redis.call('HDEL', KEYS[1], ARGV[1])
`)

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Verify connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.RedisKeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &redisCache{
		client:  client,
		ttl:     cfg.TTL,
		maxSize: cfg.Size,
		onEvict: cfg.OnEvict,
		logger:  cfg.Logger,
		dataKey: prefix + "data",
		lruKey:  prefix + "lru",
	}, nil
}

func (r *redisCache) keys() []string {
	return []string{r.dataKey, r.lruKey}
}

func (r *redisCache) logError(msg string, err error) {
	if r.logger != nil {
		r.logger.Error().Err(err).Str("provider", "redis").Msg(msg)
	}
}

func (r *redisCache) Get(key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	now := strconv.FormatInt(time.Now().UnixMicro(), 10)
	result, err := getAndTouch.Run(ctx, r.client, r.keys(), now, key).Text()
	if err != nil {
		// redis.Nil means the field doesn't exist, a normal miss.
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return []byte(result), true, nil
}

func (r *redisCache) Set(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	now := strconv.FormatInt(time.Now().UnixMicro(), 10)
	maxSize := strconv.Itoa(r.maxSize)
	ttlMs := strconv.FormatInt(r.ttl.Milliseconds(), 10)

	evicted, err := setAndEvict.Run(ctx, r.client, r.keys(),
		value, now, key, maxSize, ttlMs,
	).StringSlice()
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	if r.onEvict != nil {
		// Evicted values are not fetched back; callers only get the key.
		for _, evictedKey := range evicted {
			r.onEvict(evictedKey, nil)
		}
	}
	return nil
}

func (r *redisCache) Contains(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	n, err := r.client.HExists(ctx, r.dataKey, key).Result()
	if err != nil {
		r.logError("redis cache Contains failed", err)
	}
	return err == nil && n
}

func (r *redisCache) Delete(key string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	n, err := deleteEntry.Run(ctx, r.client, r.keys(), key).Int()
	if err != nil {
		return false, fmt.Errorf("redis delete %s: %w", key, err)
	}
	return n > 0, nil
}

func (r *redisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	n, err := r.client.HLen(ctx, r.dataKey).Result()
	if err != nil {
		r.logError("redis cache Len failed", err)
		return 0
	}
	return int(n)
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
