package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mediainsights/vmi/internal/config"
	"github.com/mediainsights/vmi/internal/models"
	"github.com/mediainsights/vmi/internal/parser"
)

func (c *client) ScrapeDirector(ctx context.Context, externalID string) (*models.RawDirector, error) {
	logger := config.GetLogger()

	body, err := c.fetchPage(ctx, fmt.Sprintf("%s/name/%s/", c.baseURL, externalID), resourceDirector, externalID)
	if err != nil {
		return nil, err
	}

	director, err := c.filmographyParser.ParseHtml(body)
	if err != nil {
		return nil, err
	}
	director.ExternalID = externalID

	logger.Info().Str("external_id", externalID).Str("name", director.Name).Int("movies", len(director.Movies)).Msg("Scraped filmography")
	return &director, nil
}

func (c *client) SearchDirector(ctx context.Context, name string) (string, error) {
	query := url.Values{}
	query.Set("q", name)
	query.Set("s", "nm")

	body, err := c.fetchPage(ctx, c.baseURL+"/find?"+query.Encode(), resourceDirector, name)
	if err != nil {
		return "", err
	}
	return parser.NewNameSearchParser(name).ParseHtml(body)
}
