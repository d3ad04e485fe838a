package parser

import (
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mediainsights/vmi/internal/apperrors"
	"github.com/mediainsights/vmi/internal/config"
	"github.com/mediainsights/vmi/internal/models"
)

// SeasonParser parses a season listing page into episode candidates. It does
// not decide which candidates are accepted.
type SeasonParser struct{}

// NewSeasonParser creates a new season parser instance
func NewSeasonParser() Parser[models.EpisodeCandidate] {
	return &SeasonParser{}
}

// ParseHtml returns one candidate per listed item, in page order.
func (p *SeasonParser) ParseHtml(body io.Reader) ([]models.EpisodeCandidate, error) {
	logger := config.GetLogger()

	doc, err := newDocument(body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse HTML document")
		return nil, apperrors.WrapParseError(pageSeason, "document", err)
	}

	container := doc.Find("#episodes_content").First()
	if container.Length() == 0 {
		return nil, apperrors.NewParseError(pageSeason, "#episodes_content")
	}

	var candidates []models.EpisodeCandidate
	var parseErr error
	container.Find("div.list_item").EachWithBreak(func(i int, item *goquery.Selection) bool {
		info := item.Find("div.info").First()
		if info.Length() == 0 {
			parseErr = apperrors.NewParseError(pageSeason, "div.list_item > div.info")
			return false
		}

		candidate, err := p.extractCandidate(info)
		if err != nil {
			parseErr = err
			return false
		}
		logger.Debug().
			Int("item", i).
			Int("episode", candidate.EpisodeNumber).
			Str("title", candidate.Title).
			Bool("has_rating", candidate.HasRating).
			Msg("Parsed season item")
		candidates = append(candidates, candidate)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	logger.Debug().Int("items", len(candidates)).Msg("Completed season page parsing")
	return candidates, nil
}

func (p *SeasonParser) extractCandidate(info *goquery.Selection) (models.EpisodeCandidate, error) {
	link := info.Find(`a[itemprop="name"]`).First()
	if link.Length() == 0 {
		return models.EpisodeCandidate{}, apperrors.NewParseError(pageSeason, "a[itemprop=name]")
	}

	candidate := models.EpisodeCandidate{
		Title: cleanText(link.Text()),
	}
	if href, ok := link.Attr("href"); ok {
		candidate.ExternalID = titleIDPattern.FindString(href)
	}

	// A missing or unreadable number leaves 0, which the caller rejects
	if content, ok := info.Find(`meta[itemprop="episodeNumber"]`).First().Attr("content"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(content)); err == nil {
			candidate.EpisodeNumber = n
		}
	}

	rating := info.Find("span.ipl-rating-star__rating").First()
	if text := strings.TrimSpace(rating.Text()); text != "" {
		score, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return models.EpisodeCandidate{}, apperrors.WrapParseError(pageSeason, "span.ipl-rating-star__rating", err)
		}
		candidate.Rating = score
		candidate.HasRating = true
	}

	return candidate, nil
}
