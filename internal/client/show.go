package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/mediainsights/vmi/internal/apperrors"
	"github.com/mediainsights/vmi/internal/config"
	"github.com/mediainsights/vmi/internal/metrics"
	"github.com/mediainsights/vmi/internal/models"
)

// Rejection reasons recorded for episode candidates
const (
	rejectNoNumber   = "no_episode_number"
	rejectNoRating   = "no_rating"
	rejectZeroRating = "zero_rating"
)

func (c *client) ScrapeShow(ctx context.Context, metadata models.ShowMetadata) (*models.RawShow, error) {
	logger := config.GetLogger()
	logger.Info().Str("external_id", metadata.ExternalID).Int("seasons", metadata.SeasonCount).Msg("Scraping show")

	show := &models.RawShow{ExternalID: metadata.ExternalID}
	nextIndex := 1
	for number := 1; number <= metadata.SeasonCount; number++ {
		season, next, err := c.scrapeSeason(ctx, metadata.ExternalID, number, nextIndex)
		if err != nil {
			return nil, err
		}
		nextIndex = next
		show.Seasons = append(show.Seasons, season)
	}

	logger.Info().Str("external_id", metadata.ExternalID).Int("episodes", nextIndex-1).Msg("Scraped show")
	return show, nil
}

// scrapeSeason fetches one season page and assigns overall indexes starting
// at nextIndex. It returns the index to continue from in the next season.
func (c *client) scrapeSeason(ctx context.Context, showID string, number, nextIndex int) (models.RawSeason, int, error) {
	logger := config.GetLogger()

	url := fmt.Sprintf("%s/title/%s/episodes?season=%d", c.baseURL, showID, number)
	body, err := c.fetchPage(ctx, url, resourceSeason, showID)
	if err != nil {
		if errors.Is(err, &apperrors.ErrNotFound{}) {
			return models.RawSeason{}, nextIndex, newSeasonNotFoundError(showID, number)
		}
		return models.RawSeason{}, nextIndex, err
	}

	candidates, err := c.seasonParser.ParseHtml(body)
	if err != nil {
		return models.RawSeason{}, nextIndex, err
	}

	season := models.RawSeason{Number: number}
	for _, candidate := range candidates {
		if reason := rejectReason(candidate); reason != "" {
			metrics.EpisodesRejectedTotal.WithLabelValues(reason).Inc()
			logger.Debug().
				Str("show", showID).
				Int("season", number).
				Str("title", candidate.Title).
				Str("reason", reason).
				Msg("Rejected episode candidate")
			continue
		}
		season.Episodes = append(season.Episodes, models.RawEpisode{
			OverallIndex:  nextIndex,
			SeasonNumber:  number,
			EpisodeNumber: candidate.EpisodeNumber,
			Title:         candidate.Title,
			Score:         candidate.Rating,
			ExternalID:    candidate.ExternalID,
		})
		nextIndex++
	}

	logger.Debug().Str("show", showID).Int("season", number).Int("accepted", len(season.Episodes)).Int("listed", len(candidates)).Msg("Scraped season")
	return season, nextIndex, nil
}

// rejectReason returns why a candidate cannot become an episode, or "" when
// it is accepted.
func rejectReason(candidate models.EpisodeCandidate) string {
	switch {
	case candidate.EpisodeNumber <= 0:
		return rejectNoNumber
	case !candidate.HasRating:
		return rejectNoRating
	case candidate.Rating <= 0:
		return rejectZeroRating
	default:
		return ""
	}
}
