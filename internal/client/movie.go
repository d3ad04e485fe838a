package client

import (
	"context"
	"fmt"

	"github.com/mediainsights/vmi/internal/config"
	"github.com/mediainsights/vmi/internal/models"
)

func (c *client) ScrapeMovie(ctx context.Context, externalID string) (*models.RawMovie, error) {
	logger := config.GetLogger()

	body, err := c.fetchPage(ctx, fmt.Sprintf("%s/title/%s/", c.baseURL, externalID), resourceMovie, externalID)
	if err != nil {
		return nil, err
	}

	movie, err := c.movieParser.ParseHtml(body)
	if err != nil {
		return nil, err
	}
	movie.ExternalID = externalID

	logger.Debug().Str("external_id", externalID).Msg("Scraped movie details")
	return &movie, nil
}

// ScrapeTopReviews returns the first page of user reviews. Reviews are not
// deduplicated and further pages are not followed.
func (c *client) ScrapeTopReviews(ctx context.Context, externalID string) ([]models.Review, error) {
	body, err := c.fetchPage(ctx, fmt.Sprintf("%s/title/%s/reviews", c.baseURL, externalID), resourceReviews, externalID)
	if err != nil {
		return nil, err
	}
	return c.reviewsParser.ParseHtml(body)
}
