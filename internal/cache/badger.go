package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

func init() {
	Register("badger", newBadgerCache)
}

// badgerCache stores entries in an embedded Badger database under Dir.
// Entries never expire unless a TTL is configured.
type badgerCache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *zerolog.Logger
}

func newBadgerCache(cfg ProviderConfig) (Cache, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = defaultCacheDir
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil            // Badger's own logging is too chatty for a CLI
	opts.SyncWrites = true       // an entry is durable once Set returns
	opts.CompactL0OnClose = true // faster reopen on the next run

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	return &badgerCache{
		db:     db,
		ttl:    cfg.TTL,
		logger: cfg.Logger,
	}, nil
}

func (b *badgerCache) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("badger get %s: %w", key, err)
	}
	return value, true, nil
}

func (b *badgerCache) Set(key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if b.ttl > 0 {
			entry = entry.WithTTL(b.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}
	return nil
}

func (b *badgerCache) Contains(key string) bool {
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) && b.logger != nil {
		b.logger.Error().Err(err).Str("key", key).Msg("badger cache Contains failed")
	}
	return err == nil
}

func (b *badgerCache) Delete(key string) (bool, error) {
	existed := false
	err := b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		existed = true
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return false, fmt.Errorf("badger delete %s: %w", key, err)
	}
	return existed, nil
}

// Len walks the keys without fetching values.
func (b *badgerCache) Len() int {
	n := 0
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil && b.logger != nil {
		b.logger.Error().Err(err).Msg("badger cache Len failed")
	}
	return n
}

func (b *badgerCache) Close() error {
	return b.db.Close()
}
