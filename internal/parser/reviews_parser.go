package parser

import (
	"io"

	"github.com/PuerkitoBio/goquery"

	"github.com/mediainsights/vmi/internal/apperrors"
	"github.com/mediainsights/vmi/internal/config"
	"github.com/mediainsights/vmi/internal/models"
)

// ReviewsParser parses the first page of a title's user reviews.
type ReviewsParser struct{}

// NewReviewsParser creates a new reviews parser instance
func NewReviewsParser() Parser[models.Review] {
	return &ReviewsParser{}
}

// ParseHtml returns the reviews in page order. Duplicates are kept.
func (p *ReviewsParser) ParseHtml(body io.Reader) ([]models.Review, error) {
	logger := config.GetLogger()

	doc, err := newDocument(body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse HTML document")
		return nil, apperrors.WrapParseError(pageReviews, "document", err)
	}

	list := doc.Find("div.lister-list").First()
	if list.Length() == 0 {
		return nil, apperrors.NewParseError(pageReviews, "div.lister-list")
	}

	reviews := []models.Review{}
	var parseErr error
	list.Find("div.lister-item-content").EachWithBreak(func(i int, item *goquery.Selection) bool {
		title := item.Find("a.title").First()
		if title.Length() == 0 {
			parseErr = apperrors.NewParseError(pageReviews, "a.title")
			return false
		}
		reviews = append(reviews, models.Review{
			Title: cleanText(title.Text()),
			Body:  cleanText(item.Find("div.text").First().Text()),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	logger.Debug().Int("reviews", len(reviews)).Msg("Completed reviews parsing")
	return reviews, nil
}
