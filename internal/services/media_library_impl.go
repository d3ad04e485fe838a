package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mediainsights/vmi/internal/apperrors"
	"github.com/mediainsights/vmi/internal/assembler"
	"github.com/mediainsights/vmi/internal/client"
	"github.com/mediainsights/vmi/internal/config"
	"github.com/mediainsights/vmi/internal/metadata"
	"github.com/mediainsights/vmi/internal/metrics"
	"github.com/mediainsights/vmi/internal/models"
	"github.com/mediainsights/vmi/internal/store"
	"github.com/mediainsights/vmi/internal/transport"
)

// Fetch states, logged as each lookup moves through them
const (
	stateResolvingMetadata = "RESOLVING_METADATA"
	stateCacheCheck        = "CACHE_CHECK"
	stateCacheHit          = "CACHE_HIT"
	stateCacheMiss         = "CACHE_MISS"
	stateScraping          = "SCRAPING"
	stateAssembling        = "ASSEMBLING"
	stateCaching           = "CACHING"
	stateDone              = "DONE"
)

// DefaultMediaLibrary implements MediaLibrary. Every call runs sequentially
// and a failure in any state aborts the request without caching anything.
type DefaultMediaLibrary struct {
	metadata metadata.Client
	scraper  client.Client
	store    *store.Store
}

// NewMediaLibrary wires a library from its collaborators.
func NewMediaLibrary(metadataClient metadata.Client, scraper client.Client, entities *store.Store) MediaLibrary {
	return &DefaultMediaLibrary{
		metadata: metadataClient,
		scraper:  scraper,
		store:    entities,
	}
}

// Open builds the HTTP transport, both upstream clients and the entity store
// from configuration. A missing API key fails here, before any request.
func Open(cfg *config.Config) (MediaLibrary, error) {
	httpClient := transport.NewHTTPClient(cfg)

	metadataClient, err := metadata.NewClient(cfg, transport.NewFetcher(metadata.ServiceName, cfg, httpClient))
	if err != nil {
		return nil, err
	}
	scraper := client.NewClient(cfg, transport.NewFetcher(client.ServiceName, cfg, httpClient))

	entities, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	return NewMediaLibrary(metadataClient, scraper, entities), nil
}

func (l *DefaultMediaLibrary) GetShow(ctx context.Context, title string) (*models.Show, error) {
	logger := config.GetLogger()
	logger.Debug().Str("title", title).Str("state", stateResolvingMetadata).Msg("Getting show")

	meta, err := l.metadata.GetShowMetadata(ctx, title)
	if err != nil {
		return nil, err
	}

	return readThrough(l, models.ShowKey(meta.ExternalID), l.store.GetShow, func() (*models.Show, error) {
		raw, err := l.scraper.ScrapeShow(ctx, *meta)
		if err != nil {
			return nil, err
		}
		logState(models.ShowKey(meta.ExternalID), stateAssembling)
		return assembler.Show(*meta, *raw)
	})
}

func (l *DefaultMediaLibrary) RemoveShow(ctx context.Context, title string) error {
	logger := config.GetLogger()

	meta, err := l.metadata.GetShowMetadata(ctx, title)
	if err != nil {
		return err
	}

	key := models.ShowKey(meta.ExternalID)
	if !l.store.Has(key) {
		logger.Debug().Str("key", key.String()).Msg("Show not cached, nothing to remove")
		return nil
	}
	if err := l.store.Remove(key); err != nil && !errors.Is(err, &apperrors.ErrCacheMiss{}) {
		return err
	}
	logger.Info().Str("title", meta.Title).Str("key", key.String()).Msg("Removed cached show")
	return nil
}

func (l *DefaultMediaLibrary) GetDirector(ctx context.Context, externalID string) (*models.Director, error) {
	logger := config.GetLogger()
	key := models.DirectorKey(externalID)

	meta, err := readThrough(l, key, l.store.GetDirectorMetadata, func() (*models.DirectorMetadata, error) {
		raw, err := l.scraper.ScrapeDirector(ctx, externalID)
		if err != nil {
			return nil, err
		}
		logState(key, stateAssembling)
		return assembler.DirectorMetadata(*raw)
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("director", meta.Name).Int("movies", len(meta.Movies)).Msg("Resolving filmography")
	movies := make([]models.Movie, 0, len(meta.Movies))
	for _, ref := range meta.Movies {
		movie, err := l.getMovie(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve movie %s of director %s: %w", ref.ExternalID, externalID, err)
		}
		movies = append(movies, *movie)
	}

	return assembler.Director(*meta, movies), nil
}

func (l *DefaultMediaLibrary) GetDirectorByName(ctx context.Context, name string) (*models.Director, error) {
	externalID, err := l.scraper.SearchDirector(ctx, name)
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger()
	logger.Debug().Str("name", name).Str("external_id", externalID).Msg("Resolved director name")
	return l.GetDirector(ctx, externalID)
}

func (l *DefaultMediaLibrary) GetTopReviews(ctx context.Context, externalID string) ([]models.Review, error) {
	raw, err := l.scraper.ScrapeTopReviews(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return assembler.Reviews(raw), nil
}

func (l *DefaultMediaLibrary) Close() error {
	return l.store.Close()
}

// getMovie resolves one filmography entry through the cache. A miss needs
// both the metadata summary and the title page.
func (l *DefaultMediaLibrary) getMovie(ctx context.Context, ref models.MovieMetadata) (*models.Movie, error) {
	key := models.MovieKey(ref.ExternalID)
	return readThrough(l, key, l.store.GetMovie, func() (*models.Movie, error) {
		summary, err := l.metadata.GetMovieSummary(ctx, ref)
		if err != nil {
			return nil, err
		}
		raw, err := l.scraper.ScrapeMovie(ctx, ref.ExternalID)
		if err != nil {
			return nil, err
		}
		logState(key, stateAssembling)
		return assembler.Movie(*summary, *raw)
	})
}

// readThrough returns the stored entity for key, or builds, stores and returns
// it. An unusable stored entry (stale schema, wrong kind) counts as a miss and
// is overwritten.
func readThrough[T any](l *DefaultMediaLibrary, key models.EntityKey, load func(models.EntityKey) (*T, error), build func() (*T, error)) (*T, error) {
	logState(key, stateCacheCheck)
	if l.store.Has(key) {
		entity, err := load(key)
		if err == nil {
			logState(key, stateCacheHit)
			metrics.LookupsTotal.WithLabelValues(key.Kind.String(), "hit").Inc()
			logState(key, stateDone)
			return entity, nil
		}
		if !errors.Is(err, &apperrors.ErrCacheMiss{}) {
			return nil, err
		}
		logger := config.GetLogger()
		logger.Debug().Err(err).Str("key", key.String()).Msg("Stored entry unusable")
	}

	logState(key, stateCacheMiss)
	metrics.LookupsTotal.WithLabelValues(key.Kind.String(), "miss").Inc()

	logState(key, stateScraping)
	entity, err := build()
	if err != nil {
		return nil, err
	}

	logState(key, stateCaching)
	if err := l.store.Put(key, entity); err != nil {
		return nil, err
	}
	logState(key, stateDone)
	return entity, nil
}

func logState(key models.EntityKey, state string) {
	logger := config.GetLogger()
	logger.Debug().Str("key", key.String()).Str("state", state).Msg("Lookup state")
}
