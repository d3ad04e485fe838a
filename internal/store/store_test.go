package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediainsights/vmi/internal/apperrors"
	"github.com/mediainsights/vmi/internal/cache"
	"github.com/mediainsights/vmi/internal/config"
	"github.com/mediainsights/vmi/internal/models"
)

func newMemoryStore(t *testing.T) (*Store, cache.Cache) {
	t.Helper()
	backend, err := cache.New("memory", cache.ProviderConfig{})
	require.NoError(t, err)
	s := New(backend)
	t.Cleanup(func() { _ = s.Close() })
	return s, backend
}

func sampleShow() *models.Show {
	return &models.Show{
		Title:      "Example Series",
		Slug:       "example-series",
		Rating:     8.4,
		ExternalID: "tt999",
		Seasons: []models.Season{
			{Number: 1, Episodes: []models.Episode{
				{OverallIndex: 1, SeasonNumber: 1, EpisodeNumber: 1, Title: "Pilot", Score: 8.1, ExternalID: "tt1001"},
				{OverallIndex: 2, SeasonNumber: 1, EpisodeNumber: 2, Title: "Second", Score: 7.9, ExternalID: "tt1002"},
			}},
			{Number: 2, Episodes: []models.Episode{
				{OverallIndex: 3, SeasonNumber: 2, EpisodeNumber: 1, Title: "Return", Score: 8.8, ExternalID: "tt2001"},
			}},
		},
	}
}

func sampleMovie() *models.Movie {
	budget := int64(5500000)
	runtime := 129
	return &models.Movie{
		ExternalID: "tt0070735",
		Title:      "The Sting",
		Slug:       "the-sting",
		Year:       1973,
		Rating:     8.3,
		Budget:     &budget,
		Runtime:    &runtime,
		Genres:     []string{"Comedy", "Crime"},
	}
}

func TestStore_ShowRoundTrip(t *testing.T) {
	s, _ := newMemoryStore(t)
	show := sampleShow()
	key := models.ShowKey(show.ExternalID)

	require.NoError(t, s.Put(key, show))

	got, err := s.GetShow(key)
	require.NoError(t, err)
	assert.Equal(t, show, got)
	assert.Equal(t, 3, got.EpisodeCount())
	assert.Equal(t, 2, got.SeasonCount())
}

func TestStore_MovieRoundTrip(t *testing.T) {
	s, _ := newMemoryStore(t)
	movie := sampleMovie()
	key := models.MovieKey(movie.ExternalID)

	require.NoError(t, s.Put(key, movie))

	got, err := s.GetMovie(key)
	require.NoError(t, err)
	assert.Equal(t, movie, got)
	assert.Nil(t, got.BoxofficeUSA)
}

func TestStore_DirectorMetadataRoundTrip(t *testing.T) {
	s, _ := newMemoryStore(t)
	metadata := &models.DirectorMetadata{
		ExternalID: "nm0001",
		Name:       "Jane Doe",
		Slug:       "jane-doe",
		Movies: []models.MovieMetadata{
			{ExternalID: "tt3", Title: "Third"},
			{ExternalID: "tt2", Title: "Second"},
		},
	}
	key := models.DirectorKey(metadata.ExternalID)

	require.NoError(t, s.Put(key, metadata))

	got, err := s.GetDirectorMetadata(key)
	require.NoError(t, err)
	assert.Equal(t, metadata, got)
}

func TestStore_HasPutRemove(t *testing.T) {
	s, _ := newMemoryStore(t)
	key := models.ShowKey("tt999")

	assert.False(t, s.Has(key))
	require.NoError(t, s.Put(key, sampleShow()))
	assert.True(t, s.Has(key))

	require.NoError(t, s.Remove(key))
	assert.False(t, s.Has(key))

	err := s.Remove(key)
	assert.ErrorIs(t, err, &apperrors.ErrCacheMiss{})
}

func TestStore_GetAbsent(t *testing.T) {
	s, _ := newMemoryStore(t)

	_, err := s.GetShow(models.ShowKey("tt404"))
	assert.ErrorIs(t, err, &apperrors.ErrCacheMiss{})
}

func TestStore_PutOverwrites(t *testing.T) {
	s, _ := newMemoryStore(t)
	key := models.ShowKey("tt999")

	first := sampleShow()
	require.NoError(t, s.Put(key, first))

	second := sampleShow()
	second.Title = "Renamed"
	second.Seasons = second.Seasons[:1]
	require.NoError(t, s.Put(key, second))

	got, err := s.GetShow(key)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, 2, got.EpisodeCount())
}

func TestStore_PutRejectsMismatchedKey(t *testing.T) {
	s, _ := newMemoryStore(t)

	err := s.Put(models.MovieKey("tt999"), sampleShow())
	assert.Error(t, err)
	assert.False(t, s.Has(models.MovieKey("tt999")))

	err = s.Put(models.ShowKey(" "), sampleShow())
	assert.Error(t, err)
}

func TestStore_KindMismatchIsMiss(t *testing.T) {
	s, _ := newMemoryStore(t)
	require.NoError(t, s.Put(models.ShowKey("tt999"), sampleShow()))

	_, err := s.GetMovie(models.MovieKey("tt999"))
	assert.ErrorIs(t, err, &apperrors.ErrCacheMiss{})
}

func TestStore_PutKeepsEntryOfOtherKind(t *testing.T) {
	s, _ := newMemoryStore(t)
	require.NoError(t, s.Put(models.ShowKey("tt999"), sampleShow()))

	director := &models.DirectorMetadata{ExternalID: "tt999", Name: "Someone", Slug: "someone"}
	err := s.Put(models.DirectorKey("tt999"), director)
	assert.ErrorIs(t, err, ErrKindConflict)

	show, err := s.GetShow(models.ShowKey("tt999"))
	require.NoError(t, err)
	assert.Equal(t, "Example Series", show.Title)
}

func TestStore_PutReplacesStaleEntryOfOtherKind(t *testing.T) {
	s, backend := newMemoryStore(t)
	require.NoError(t, backend.Set("tt999", []byte(`{"schema_version":0,"kind":"show","external_id":"tt999"}`)))

	director := &models.DirectorMetadata{ExternalID: "tt999", Name: "Someone", Slug: "someone"}
	require.NoError(t, s.Put(models.DirectorKey("tt999"), director))

	got, err := s.GetDirectorMetadata(models.DirectorKey("tt999"))
	require.NoError(t, err)
	assert.Equal(t, "Someone", got.Name)
}

func TestStore_SchemaMismatchIsMiss(t *testing.T) {
	s, backend := newMemoryStore(t)
	key := models.ShowKey("tt999")

	payload, err := json.Marshal(sampleShow())
	require.NoError(t, err)
	stale, err := json.Marshal(envelope{
		SchemaVersion: SchemaVersion - 1,
		Kind:          models.KindShow,
		ExternalID:    "tt999",
		StoredAt:      time.Now(),
		Payload:       payload,
	})
	require.NoError(t, err)
	require.NoError(t, backend.Set("tt999", stale))

	assert.True(t, s.Has(key))
	_, err = s.GetShow(key)
	assert.ErrorIs(t, err, &apperrors.ErrCacheMiss{})
}

func TestStore_CorruptEntryIsMiss(t *testing.T) {
	s, backend := newMemoryStore(t)
	require.NoError(t, backend.Set("tt999", []byte(`{"schema_version":`)))

	_, err := s.GetShow(models.ShowKey("tt999"))
	assert.ErrorIs(t, err, &apperrors.ErrCacheMiss{})
}

func TestStore_EnvelopeFields(t *testing.T) {
	s, backend := newMemoryStore(t)
	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return stamp }

	require.NoError(t, s.Put(models.MovieKey("tt0070735"), sampleMovie()))

	data, ok, err := backend.Get("tt0070735")
	require.NoError(t, err)
	require.True(t, ok)

	var env envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, SchemaVersion, env.SchemaVersion)
	assert.Equal(t, models.KindMovie, env.Kind)
	assert.Equal(t, "tt0070735", env.ExternalID)
	assert.True(t, stamp.Equal(env.StoredAt))
}

func TestOpen_FileProvider(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	cfg := &config.Config{}
	cfg.Cache.Provider = "file"
	cfg.Cache.Dir = dir

	s, err := Open(cfg)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(models.ShowKey("tt999"), sampleShow()))

	info, err := os.Stat(filepath.Join(dir, "tt999"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())

	got, err := s.GetShow(models.ShowKey("tt999"))
	require.NoError(t, err)
	assert.Equal(t, 3, got.EpisodeCount())
}

func TestOpen_UnknownProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Provider = "tape"

	_, err := Open(cfg)
	assert.Error(t, err)
}
