package services

import (
	"context"

	"github.com/mediainsights/vmi/internal/models"
)

// MediaLibrary is the read-through facade over metadata lookups, page scraping
// and the entity store. It is the only entry point presentation code uses.
type MediaLibrary interface {
	// GetShow resolves title through the metadata API and returns the cached
	// show, scraping and caching it first on a miss.
	GetShow(ctx context.Context, title string) (*models.Show, error)

	// RemoveShow drops the cached show for title. Removing a show that is not
	// cached succeeds.
	RemoveShow(ctx context.Context, title string) error

	// GetDirector returns the director with every feature film resolved, in
	// chronological order. Any movie failure aborts the whole call. An id
	// already cached as another kind fails with store.ErrKindConflict.
	GetDirector(ctx context.Context, externalID string) (*models.Director, error)

	// GetDirectorByName searches for name and defers to GetDirector.
	GetDirectorByName(ctx context.Context, name string) (*models.Director, error)

	// GetTopReviews returns the featured user reviews of a title. Reviews are
	// never cached.
	GetTopReviews(ctx context.Context, externalID string) ([]models.Review, error)

	// Close releases the entity store.
	Close() error
}
