// Package store persists whole domain entities on top of a byte-level cache
// backend. Each entry is the full entity graph wrapped in a versioned envelope.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mediainsights/vmi/internal/apperrors"
	"github.com/mediainsights/vmi/internal/cache"
	"github.com/mediainsights/vmi/internal/config"
	"github.com/mediainsights/vmi/internal/models"
)

// ErrKindConflict is returned by Put when the external id already holds a
// current entry of another kind.
var ErrKindConflict = errors.New("store: external id holds another kind")

// SchemaVersion is stamped into every entry. Entries written under another
// version are treated as misses and get re-scraped.
const SchemaVersion = 1

// metricsGroup labels the cache metrics of the entity store.
const metricsGroup = "entities"

type envelope struct {
	SchemaVersion int               `json:"schema_version"`
	Kind          models.EntityKind `json:"kind"`
	ExternalID    string            `json:"external_id"`
	StoredAt      time.Time         `json:"stored_at"`
	Payload       json.RawMessage   `json:"payload"`
}

// Store is a single-writer entity cache. Entries are addressed by external id
// alone and never expire.
type Store struct {
	backend cache.Cache
	now     func() time.Time
}

// New wraps an already constructed backend.
func New(backend cache.Cache) *Store {
	return &Store{backend: backend, now: time.Now}
}

// Open creates the backend named by the configuration and wraps it.
func Open(cfg *config.Config) (*Store, error) {
	logger := config.GetLogger()

	providerCfg := cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		Dir:           cfg.Cache.Dir,
		Logger:        &logger,
		RedisAddress:  cfg.Cache.Redis.Address,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		Group:         metricsGroup,
	}
	provider := cfg.Cache.Provider
	if provider == "" {
		provider = "file"
	}

	backend, err := cache.New(provider, providerCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s cache: %w", provider, err)
	}
	logger.Info().Str("provider", provider).Str("dir", cfg.Cache.Dir).Msg("Entity store opened")
	return New(backend), nil
}

// Has reports whether an entry exists for key without reading it.
func (s *Store) Has(key models.EntityKey) bool {
	return s.backend.Contains(key.ExternalID)
}

// GetShow loads a show with all of its seasons and episodes.
func (s *Store) GetShow(key models.EntityKey) (*models.Show, error) {
	return get[models.Show](s, key)
}

// GetMovie loads a fully resolved movie.
func (s *Store) GetMovie(key models.EntityKey) (*models.Movie, error) {
	return get[models.Movie](s, key)
}

// GetDirectorMetadata loads a director's name and filmography references.
func (s *Store) GetDirectorMetadata(key models.EntityKey) (*models.DirectorMetadata, error) {
	return get[models.DirectorMetadata](s, key)
}

// Put serializes entity and replaces any entry stored under key. Entries share
// one id namespace, so a current entry of another kind is never replaced;
// stale or corrupt entries are.
func (s *Store) Put(key models.EntityKey, entity any) error {
	if strings.TrimSpace(key.ExternalID) == "" {
		return errors.New("store: empty external id")
	}
	if kind := kindOf(entity); kind != key.Kind {
		return fmt.Errorf("store: cannot store %s under %s key", kind, key.Kind)
	}

	payload, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	data, err := json.Marshal(envelope{
		SchemaVersion: SchemaVersion,
		Kind:          key.Kind,
		ExternalID:    key.ExternalID,
		StoredAt:      s.now().UTC(),
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := s.checkSlot(key); err != nil {
		return err
	}
	if err := s.backend.Set(key.ExternalID, data); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Remove deletes the entry for key. An absent entry is reported as a cache miss;
// callers check Has first when removal should be idempotent.
func (s *Store) Remove(key models.EntityKey) error {
	existed, err := s.backend.Delete(key.ExternalID)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	if !existed {
		return apperrors.NewCacheMissError(key.String(), "not stored")
	}
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) checkSlot(key models.EntityKey) error {
	data, ok, err := s.backend.Get(key.ExternalID)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	var env envelope
	if json.Unmarshal(data, &env) != nil || env.SchemaVersion != SchemaVersion {
		return nil
	}
	if env.Kind != key.Kind {
		return fmt.Errorf("%w: %s is stored as %s", ErrKindConflict, key, env.Kind)
	}
	return nil
}

func get[T any](s *Store, key models.EntityKey) (*T, error) {
	logger := config.GetLogger()

	data, ok, err := s.backend.Get(key.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return nil, apperrors.NewCacheMissError(key.String(), "not stored")
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		logger.Warn().Err(err).Str("key", key.String()).Msg("Discarding corrupt cache entry")
		return nil, apperrors.NewCacheMissError(key.String(), "corrupt entry")
	}
	if env.SchemaVersion != SchemaVersion {
		logger.Debug().
			Str("key", key.String()).
			Int("stored_version", env.SchemaVersion).
			Int("current_version", SchemaVersion).
			Msg("Cache entry has a stale schema")
		return nil, apperrors.NewCacheMissError(key.String(), fmt.Sprintf("schema version %d", env.SchemaVersion))
	}
	if env.Kind != key.Kind {
		return nil, apperrors.NewCacheMissError(key.String(), "stored as "+env.Kind.String())
	}

	var entity T
	if err := json.Unmarshal(env.Payload, &entity); err != nil {
		logger.Warn().Err(err).Str("key", key.String()).Msg("Discarding undecodable cache payload")
		return nil, apperrors.NewCacheMissError(key.String(), "corrupt payload")
	}
	return &entity, nil
}

func kindOf(entity any) models.EntityKind {
	switch entity.(type) {
	case *models.Show, models.Show:
		return models.KindShow
	case *models.Movie, models.Movie:
		return models.KindMovie
	case *models.DirectorMetadata, models.DirectorMetadata:
		return models.KindDirector
	default:
		return models.KindUnknown
	}
}
