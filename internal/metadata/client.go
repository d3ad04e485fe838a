// Package metadata resolves show titles and movie ids to canonical summary
// records through the OMDb JSON API.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/mediainsights/vmi/internal/apperrors"
	"github.com/mediainsights/vmi/internal/config"
	"github.com/mediainsights/vmi/internal/models"
	"github.com/mediainsights/vmi/internal/slug"
	"github.com/mediainsights/vmi/internal/transport"
)

// ServiceName labels OMDb requests in logs and metrics.
const ServiceName = "omdb"

// Client defines the interface for the metadata API
type Client interface {
	GetShowMetadata(ctx context.Context, title string) (*models.ShowMetadata, error)
	GetMovieSummary(ctx context.Context, ref models.MovieMetadata) (*models.MovieSummary, error)
}

type client struct {
	fetcher *transport.Fetcher
	baseURL string
	apiKey  string
}

// omdbResponse carries the fields read from either a series or a movie lookup.
// OMDb encodes every value as a string and uses "N/A" for absent values.
type omdbResponse struct {
	Response     string `json:"Response"`
	Error        string `json:"Error"`
	Title        string `json:"Title"`
	Year         string `json:"Year"`
	ImdbID       string `json:"imdbID"`
	ImdbRating   string `json:"imdbRating"`
	TotalSeasons string `json:"totalSeasons"`
	BoxOffice    string `json:"BoxOffice"`
}

var leadingYear = regexp.MustCompile(`^\d{4}`)

// NewClient creates a metadata client. A missing API key is reported here,
// once, rather than on every lookup.
func NewClient(cfg *config.Config, fetcher *transport.Fetcher) (Client, error) {
	if strings.TrimSpace(cfg.OmdbAPIKey) == "" {
		return nil, apperrors.NewConfigurationError("omdb_api_key", "set OMDB_API_KEY (see http://www.omdbapi.com/apikey.aspx)")
	}
	baseURL := cfg.OmdbBaseURL
	if baseURL == "" {
		baseURL = "http://www.omdbapi.com"
	}
	return &client{
		fetcher: fetcher,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.OmdbAPIKey,
	}, nil
}

// GetShowMetadata looks up a series by title.
func (c *client) GetShowMetadata(ctx context.Context, title string) (*models.ShowMetadata, error) {
	logger := config.GetLogger()
	logger.Debug().Str("title", title).Msg("Resolving show metadata")

	query := url.Values{}
	query.Set("t", title)
	query.Set("type", "series")
	resp, err := c.lookup(ctx, query, "show", title)
	if err != nil {
		return nil, err
	}

	target := c.endpoint(query)
	seasons, err := strconv.Atoi(strings.TrimSpace(resp.TotalSeasons))
	if err != nil || seasons <= 0 {
		return nil, apperrors.NewUpstreamError(ServiceName, target, fmt.Errorf("invalid totalSeasons %q", resp.TotalSeasons))
	}
	rating, err := parseRating(resp.ImdbRating)
	if err != nil {
		return nil, apperrors.NewUpstreamError(ServiceName, target, err)
	}
	if resp.ImdbID == "" {
		return nil, apperrors.NewUpstreamError(ServiceName, target, fmt.Errorf("response has no imdbID"))
	}

	metadata := &models.ShowMetadata{
		Title:       resp.Title,
		Slug:        slug.Make(resp.Title),
		Rating:      rating,
		ExternalID:  resp.ImdbID,
		SeasonCount: seasons,
	}
	logger.Debug().Str("title", metadata.Title).Str("external_id", metadata.ExternalID).Int("seasons", seasons).Msg("Resolved show metadata")
	return metadata, nil
}

// GetMovieSummary looks up a movie by its external id.
func (c *client) GetMovieSummary(ctx context.Context, ref models.MovieMetadata) (*models.MovieSummary, error) {
	logger := config.GetLogger()
	logger.Debug().Str("external_id", ref.ExternalID).Msg("Resolving movie summary")

	query := url.Values{}
	query.Set("i", ref.ExternalID)
	resp, err := c.lookup(ctx, query, "movie", ref.ExternalID)
	if err != nil {
		return nil, err
	}

	target := c.endpoint(query)
	rating, err := parseRating(resp.ImdbRating)
	if err != nil {
		return nil, apperrors.NewUpstreamError(ServiceName, target, err)
	}
	year := 0
	if match := leadingYear.FindString(resp.Year); match != "" {
		year, _ = strconv.Atoi(match)
	}
	boxOffice, err := parseBoxOffice(resp.BoxOffice)
	if err != nil {
		return nil, apperrors.NewUpstreamError(ServiceName, target, err)
	}

	title := resp.Title
	if title == "" {
		title = ref.Title
	}
	return &models.MovieSummary{
		ExternalID: ref.ExternalID,
		Title:      title,
		Year:       year,
		Rating:     rating,
		BoxOffice:  boxOffice,
	}, nil
}

func (c *client) endpoint(query url.Values) string {
	return c.baseURL + "/?" + query.Encode()
}

// lookup performs one API call and handles the envelope common to every
// response. The API key is added here so it never appears in error targets.
func (c *client) lookup(ctx context.Context, query url.Values, resource, id string) (*omdbResponse, error) {
	target := c.endpoint(query)

	withKey := url.Values{}
	for k, v := range query {
		withKey[k] = v
	}
	withKey.Set("apikey", c.apiKey)

	body, err := c.fetcher.Get(ctx, c.endpoint(withKey))
	if err != nil {
		// Re-target the error so the key-bearing URL is not reported
		var upstream *apperrors.ErrUpstream
		if errors.As(err, &upstream) {
			err = upstream.Err
		}
		return nil, apperrors.NewUpstreamError(ServiceName, target, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, apperrors.NewUpstreamError(ServiceName, target, fmt.Errorf("empty response body"))
	}

	var resp omdbResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.NewUpstreamError(ServiceName, target, fmt.Errorf("decode response: %w", err))
	}
	if strings.EqualFold(resp.Response, "False") {
		logger := config.GetLogger()
		logger.Debug().Str("resource", resource).Str("id", id).Str("error", resp.Error).Msg("Metadata API reported no match")
		return nil, apperrors.NewNotFoundError(resource, id)
	}
	return &resp, nil
}

// parseRating reads OMDb's string rating; "N/A" means unrated and maps to 0.
func parseRating(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "N/A" {
		return 0, nil
	}
	rating, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid imdbRating %q: %w", raw, err)
	}
	return rating, nil
}

// parseBoxOffice reads amounts such as "$292,576,195". Absent values are nil.
func parseBoxOffice(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "N/A" {
		return nil, nil
	}
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(raw)
	amount, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid BoxOffice %q: %w", raw, err)
	}
	return &amount, nil
}
