package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mediainsights/vmi/internal/apperrors"
	"github.com/mediainsights/vmi/internal/cache"
	"github.com/mediainsights/vmi/internal/models"
	"github.com/mediainsights/vmi/internal/store"
)

type fakeMetadata struct {
	shows        map[string]models.ShowMetadata
	movies       map[string]models.MovieSummary
	showCalls    int
	summaryCalls int
}

func (f *fakeMetadata) GetShowMetadata(_ context.Context, title string) (*models.ShowMetadata, error) {
	f.showCalls++
	meta, ok := f.shows[title]
	if !ok {
		return nil, apperrors.NewNotFoundError("show", title)
	}
	return &meta, nil
}

func (f *fakeMetadata) GetMovieSummary(_ context.Context, ref models.MovieMetadata) (*models.MovieSummary, error) {
	f.summaryCalls++
	summary, ok := f.movies[ref.ExternalID]
	if !ok {
		return nil, apperrors.NewNotFoundError("movie", ref.ExternalID)
	}
	return &summary, nil
}

type fakeScraper struct {
	shows     map[string]models.RawShow
	directors map[string]models.RawDirector
	movies    map[string]models.RawMovie
	reviews   map[string][]models.Review
	names     map[string]string
	failing   map[string]error

	showCalls     int
	directorCalls int
	movieCalls    int
}

func (f *fakeScraper) ScrapeShow(_ context.Context, meta models.ShowMetadata) (*models.RawShow, error) {
	f.showCalls++
	raw, ok := f.shows[meta.ExternalID]
	if !ok {
		return nil, apperrors.NewNotFoundError("show", meta.ExternalID)
	}
	return &raw, nil
}

func (f *fakeScraper) ScrapeDirector(_ context.Context, externalID string) (*models.RawDirector, error) {
	f.directorCalls++
	raw, ok := f.directors[externalID]
	if !ok {
		return nil, apperrors.NewNotFoundError("director", externalID)
	}
	return &raw, nil
}

func (f *fakeScraper) ScrapeMovie(_ context.Context, externalID string) (*models.RawMovie, error) {
	f.movieCalls++
	if err, ok := f.failing[externalID]; ok {
		return nil, err
	}
	raw, ok := f.movies[externalID]
	if !ok {
		return nil, apperrors.NewNotFoundError("movie", externalID)
	}
	return &raw, nil
}

func (f *fakeScraper) ScrapeTopReviews(_ context.Context, externalID string) ([]models.Review, error) {
	reviews, ok := f.reviews[externalID]
	if !ok {
		return nil, apperrors.NewNotFoundError("reviews", externalID)
	}
	return reviews, nil
}

func (f *fakeScraper) SearchDirector(_ context.Context, name string) (string, error) {
	id, ok := f.names[name]
	if !ok {
		return "", apperrors.NewNotFoundError("director", name)
	}
	return id, nil
}

func newMemoryStore(t *testing.T) *store.Store {
	t.Helper()
	backend, err := cache.New("memory", cache.ProviderConfig{})
	require.NoError(t, err)
	return store.New(backend)
}
