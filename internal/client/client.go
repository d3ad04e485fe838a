// Package client scrapes season, filmography, title and review pages from IMDb.
package client

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/mediainsights/vmi/internal/config"
	"github.com/mediainsights/vmi/internal/models"
	"github.com/mediainsights/vmi/internal/parser"
	"github.com/mediainsights/vmi/internal/transport"
)

// ServiceName labels IMDb requests in logs and metrics.
const ServiceName = "imdb"

// Client defines the interface for scraping detail pages
type Client interface {
	// ScrapeShow fetches seasons 1..SeasonCount in order and returns the
	// accepted episodes of each, indexed across the whole show.
	ScrapeShow(ctx context.Context, metadata models.ShowMetadata) (*models.RawShow, error)
	ScrapeDirector(ctx context.Context, externalID string) (*models.RawDirector, error)
	ScrapeMovie(ctx context.Context, externalID string) (*models.RawMovie, error)
	ScrapeTopReviews(ctx context.Context, externalID string) ([]models.Review, error)
	SearchDirector(ctx context.Context, name string) (string, error)
}

// client implements the Client interface
type client struct {
	fetcher           *transport.Fetcher
	baseURL           string
	seasonParser      parser.Parser[models.EpisodeCandidate]
	filmographyParser parser.SingleResultParser[models.RawDirector]
	movieParser       parser.SingleResultParser[models.RawMovie]
	reviewsParser     parser.Parser[models.Review]
}

// NewClient creates a new scrape client using the shared fetcher
func NewClient(cfg *config.Config, fetcher *transport.Fetcher) Client {
	baseURL := cfg.ImdbBaseURL
	if baseURL == "" {
		baseURL = "https://www.imdb.com"
	}
	return &client{
		fetcher:           fetcher,
		baseURL:           strings.TrimRight(baseURL, "/"),
		seasonParser:      parser.NewSeasonParser(),
		filmographyParser: parser.NewFilmographyParser(),
		movieParser:       parser.NewMovieParser(),
		reviewsParser:     parser.NewReviewsParser(),
	}
}

// fetchPage downloads a page. A 404 becomes ErrNotFound for the given
// resource; every other failure stays an ErrUpstream.
func (c *client) fetchPage(ctx context.Context, url, resource, id string) (*bytes.Reader, error) {
	logger := config.GetLogger()
	logger.Debug().Str("url", url).Msg("Fetching page")

	body, err := c.fetcher.Get(ctx, url)
	if err != nil {
		if transport.IsStatus(err, http.StatusNotFound) {
			return nil, newNotFoundError(resource, id)
		}
		logger.Error().Err(err).Str("url", url).Msg("Failed to fetch page")
		return nil, err
	}
	return bytes.NewReader(body), nil
}
