package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediainsights/vmi/internal/apperrors"
	"github.com/mediainsights/vmi/internal/config"
	"github.com/mediainsights/vmi/internal/models"
	"github.com/mediainsights/vmi/internal/store"
	"github.com/mediainsights/vmi/internal/testutil"
)

func exampleSeries() (models.ShowMetadata, models.RawShow) {
	meta := models.ShowMetadata{Title: "Example Series", Slug: "example-series", Rating: 8.4, ExternalID: "tt999", SeasonCount: 2}
	raw := models.RawShow{ExternalID: "tt999", Seasons: []models.RawSeason{
		{Number: 1, Episodes: []models.RawEpisode{
			{OverallIndex: 1, SeasonNumber: 1, EpisodeNumber: 1, Title: "One", Score: 8.1},
			{OverallIndex: 2, SeasonNumber: 1, EpisodeNumber: 2, Title: "Two", Score: 7.9},
		}},
		{Number: 2, Episodes: []models.RawEpisode{
			{OverallIndex: 3, SeasonNumber: 2, EpisodeNumber: 1, Title: "Three", Score: 9.0},
		}},
	}}
	return meta, raw
}

func newFakeLibrary(t *testing.T) (MediaLibrary, *fakeMetadata, *fakeScraper) {
	t.Helper()
	meta, raw := exampleSeries()
	md := &fakeMetadata{
		shows:  map[string]models.ShowMetadata{"Example Series": meta},
		movies: map[string]models.MovieSummary{},
	}
	sc := &fakeScraper{
		shows:     map[string]models.RawShow{"tt999": raw},
		directors: map[string]models.RawDirector{},
		movies:    map[string]models.RawMovie{},
		reviews:   map[string][]models.Review{},
		names:     map[string]string{},
		failing:   map[string]error{},
	}
	lib := NewMediaLibrary(md, sc, newMemoryStore(t))
	t.Cleanup(func() { _ = lib.Close() })
	return lib, md, sc
}

func addDirector(md *fakeMetadata, sc *fakeScraper) {
	// Filmography pages list the most recent film first
	sc.directors["nm1"] = models.RawDirector{ExternalID: "nm1", Name: "Jane Doe", Movies: []models.MovieMetadata{
		{ExternalID: "tt3", Title: "Third"},
		{ExternalID: "tt2", Title: "Second"},
		{ExternalID: "tt1", Title: "First"},
	}}
	for i, year := range []int{2010, 2015, 2020} {
		id := fmt.Sprintf("tt%d", i+1)
		md.movies[id] = models.MovieSummary{ExternalID: id, Title: fmt.Sprintf("Movie %d", year), Year: year, Rating: 7.0}
		sc.movies[id] = models.RawMovie{ExternalID: id, Genres: []string{"Drama"}}
	}
	sc.names["Jane Doe"] = "nm1"
}

func TestGetShow_ReadThrough(t *testing.T) {
	lib, md, sc := newFakeLibrary(t)
	ctx := context.Background()

	first, err := lib.GetShow(ctx, "Example Series")
	require.NoError(t, err)
	assert.Equal(t, 3, first.EpisodeCount())
	assert.Equal(t, 1, sc.showCalls)

	second, err := lib.GetShow(ctx, "Example Series")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, sc.showCalls, "second call must be served from the cache")
	assert.Equal(t, 2, md.showCalls, "title resolution is never cached")
}

func TestGetShow_NotFound(t *testing.T) {
	lib, _, sc := newFakeLibrary(t)

	_, err := lib.GetShow(context.Background(), "Missing")
	assert.ErrorIs(t, err, &apperrors.ErrNotFound{})
	assert.Equal(t, 0, sc.showCalls)
}

func TestGetShow_ScrapeFailureCachesNothing(t *testing.T) {
	lib, _, sc := newFakeLibrary(t)
	delete(sc.shows, "tt999")

	_, err := lib.GetShow(context.Background(), "Example Series")
	require.Error(t, err)

	sc.shows["tt999"] = func() models.RawShow { _, raw := exampleSeries(); return raw }()
	_, err = lib.GetShow(context.Background(), "Example Series")
	require.NoError(t, err)
	assert.Equal(t, 2, sc.showCalls)
}

func TestRemoveShow_Idempotent(t *testing.T) {
	lib, _, sc := newFakeLibrary(t)
	ctx := context.Background()

	require.NoError(t, lib.RemoveShow(ctx, "Example Series"), "removing an uncached show succeeds")

	_, err := lib.GetShow(ctx, "Example Series")
	require.NoError(t, err)

	require.NoError(t, lib.RemoveShow(ctx, "Example Series"))
	require.NoError(t, lib.RemoveShow(ctx, "Example Series"))

	_, err = lib.GetShow(ctx, "Example Series")
	require.NoError(t, err)
	assert.Equal(t, 2, sc.showCalls, "removal forces a fresh scrape")
}

func TestRemoveShow_UnknownTitle(t *testing.T) {
	lib, _, _ := newFakeLibrary(t)

	err := lib.RemoveShow(context.Background(), "Missing")
	assert.ErrorIs(t, err, &apperrors.ErrNotFound{})
}

func TestGetDirector_ChronologicalOrder(t *testing.T) {
	lib, md, sc := newFakeLibrary(t)
	addDirector(md, sc)

	director, err := lib.GetDirector(context.Background(), "nm1")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", director.Name)
	assert.Equal(t, "jane-doe", director.Slug)
	require.Len(t, director.Movies, 3)
	assert.Equal(t, []int{2010, 2015, 2020}, []int{director.Movies[0].Year, director.Movies[1].Year, director.Movies[2].Year})
}

func TestGetDirector_ReadThroughPerMovie(t *testing.T) {
	lib, md, sc := newFakeLibrary(t)
	addDirector(md, sc)
	ctx := context.Background()

	_, err := lib.GetDirector(ctx, "nm1")
	require.NoError(t, err)
	assert.Equal(t, 1, sc.directorCalls)
	assert.Equal(t, 3, sc.movieCalls)
	assert.Equal(t, 3, md.summaryCalls)

	// A new film on the filmography only costs one more movie fetch
	lib2 := lib.(*DefaultMediaLibrary)
	require.NoError(t, lib2.store.Remove(models.DirectorKey("nm1")))
	raw := sc.directors["nm1"]
	raw.Movies = append([]models.MovieMetadata{{ExternalID: "tt4", Title: "Fourth"}}, raw.Movies...)
	sc.directors["nm1"] = raw
	md.movies["tt4"] = models.MovieSummary{ExternalID: "tt4", Title: "Fourth", Year: 2024, Rating: 6.5}
	sc.movies["tt4"] = models.RawMovie{ExternalID: "tt4"}

	director, err := lib.GetDirector(ctx, "nm1")
	require.NoError(t, err)
	require.Len(t, director.Movies, 4)
	assert.Equal(t, "tt4", director.Movies[3].ExternalID)
	assert.Equal(t, 2, sc.directorCalls)
	assert.Equal(t, 4, sc.movieCalls)
	assert.Equal(t, 4, md.summaryCalls)
}

func TestGetDirector_MovieFailureAborts(t *testing.T) {
	lib, md, sc := newFakeLibrary(t)
	addDirector(md, sc)
	boom := errors.New("connection reset")
	sc.failing["tt2"] = boom

	director, err := lib.GetDirector(context.Background(), "nm1")
	assert.Nil(t, director)
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, &apperrors.ErrCacheMiss{}))
}

func TestGetDirector_IDOfCachedShow(t *testing.T) {
	lib, _, sc := newFakeLibrary(t)
	ctx := context.Background()

	_, err := lib.GetShow(ctx, "Example Series")
	require.NoError(t, err)

	sc.directors["tt999"] = models.RawDirector{ExternalID: "tt999", Name: "Not A Director"}
	director, err := lib.GetDirector(ctx, "tt999")
	assert.Nil(t, director)
	assert.ErrorIs(t, err, store.ErrKindConflict)

	show, err := lib.GetShow(ctx, "Example Series")
	require.NoError(t, err)
	assert.Equal(t, 3, show.EpisodeCount())
	assert.Equal(t, 1, sc.showCalls, "cached show survives the conflicting lookup")
}

func TestGetDirectorByName(t *testing.T) {
	lib, md, sc := newFakeLibrary(t)
	addDirector(md, sc)

	director, err := lib.GetDirectorByName(context.Background(), "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "nm1", director.ExternalID)

	_, err = lib.GetDirectorByName(context.Background(), "Nobody")
	assert.ErrorIs(t, err, &apperrors.ErrNotFound{})
}

func TestGetTopReviews(t *testing.T) {
	lib, _, sc := newFakeLibrary(t)
	sc.reviews["tt1"] = []models.Review{{Title: "  Great  ", Body: "\nLoved it\n"}, {Title: "Meh", Body: "Fine"}}

	reviews, err := lib.GetTopReviews(context.Background(), "tt1")
	require.NoError(t, err)
	assert.Equal(t, []models.Review{{Title: "Great", Body: "Loved it"}, {Title: "Meh", Body: "Fine"}}, reviews)
}

// TestGetShow_EndToEnd drives the real clients against fixture servers and a
// file-backed store.
func TestGetShow_EndToEnd(t *testing.T) {
	imdb := testutil.NewFixtureServer(t)
	imdb.Handle("/title/tt999/episodes?season=1", testutil.GenerateSeasonPageHTML(1, []testutil.EpisodeItemOptions{
		{Title: "One", EpisodeNumber: 1, Rating: "8.1"},
		{Title: "Two", EpisodeNumber: 2, Rating: "7.9"},
		{Title: "Unrated", EpisodeNumber: 3, Rating: "0"},
		{Title: "Three", EpisodeNumber: 4, Rating: "8.5"},
	}))
	imdb.Handle("/title/tt999/episodes?season=2", testutil.GenerateSeasonPageHTML(2, []testutil.EpisodeItemOptions{
		{Title: "Four", EpisodeNumber: 1, Rating: "9.0"},
		{Title: "Five", EpisodeNumber: 2, Rating: "8.8"},
	}))

	omdb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("t") != "Example Series" {
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Series not found!"}`))
			return
		}
		_, _ = w.Write([]byte(`{"Title":"Example Series","imdbRating":"8.4","imdbID":"tt999","totalSeasons":"2","Response":"True"}`))
	}))
	t.Cleanup(omdb.Close)

	dir := filepath.Join(t.TempDir(), "cache")
	cfg := &config.Config{
		OmdbAPIKey:    "test-key",
		OmdbBaseURL:   omdb.URL,
		ImdbBaseURL:   imdb.URL,
		ClientTimeout: "5s",
	}
	cfg.Retry.Delay = "1ms"
	cfg.Cache.Provider = "file"
	cfg.Cache.Dir = dir

	lib, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = lib.Close() })

	show, err := lib.GetShow(context.Background(), "Example Series")
	require.NoError(t, err)
	assert.Equal(t, 2, show.SeasonCount())
	assert.Equal(t, 5, show.EpisodeCount())
	for i, e := range show.Episodes() {
		assert.Equal(t, i+1, e.OverallIndex)
		assert.Greater(t, e.Score, 0.0)
		assert.Greater(t, e.EpisodeNumber, 0)
	}

	_, err = os.Stat(filepath.Join(dir, "tt999"))
	require.NoError(t, err, "cache file named after the external id")

	scrapes := imdb.TotalHits()
	again, err := lib.GetShow(context.Background(), "Example Series")
	require.NoError(t, err)
	assert.Equal(t, show, again)
	assert.Equal(t, scrapes, imdb.TotalHits(), "second call performs no scrape requests")
}

func TestOpen_MissingAPIKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Provider = "memory"

	_, err := Open(cfg)
	assert.ErrorIs(t, err, &apperrors.ErrConfiguration{})
}
