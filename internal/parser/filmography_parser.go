package parser

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/mediainsights/vmi/internal/apperrors"
	"github.com/mediainsights/vmi/internal/config"
	"github.com/mediainsights/vmi/internal/models"
)

// FilmographyParser extracts a director's name and feature-length director
// credits from a name page. The caller fills in the director's external id.
type FilmographyParser struct{}

// NewFilmographyParser creates a new filmography parser instance
func NewFilmographyParser() SingleResultParser[models.RawDirector] {
	return &FilmographyParser{}
}

// ParseHtml returns the director credits in page order (most recent first).
func (p *FilmographyParser) ParseHtml(body io.Reader) (models.RawDirector, error) {
	logger := config.GetLogger()

	doc, err := newDocument(body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse HTML document")
		return models.RawDirector{}, apperrors.WrapParseError(pageFilmography, "document", err)
	}

	nameNode := doc.Find("h1 span.itemprop").First()
	name := cleanText(nameNode.Text())
	if nameNode.Length() == 0 || name == "" {
		return models.RawDirector{}, apperrors.NewParseError(pageFilmography, "h1 span.itemprop")
	}

	filmography := doc.Find("#filmography").First()
	if filmography.Length() == 0 {
		return models.RawDirector{}, apperrors.NewParseError(pageFilmography, "#filmography")
	}

	result := models.RawDirector{Name: name}
	filmography.Find(`div.filmo-row[id^="director-"]`).Each(func(i int, row *goquery.Selection) {
		title := row.Find("b").First()
		link := title.Find("a").First()
		href, _ := link.Attr("href")
		externalID := titleIDPattern.FindString(href)
		if externalID == "" {
			logger.Debug().Int("row", i).Msg("Director credit without a title link, skipping")
			return
		}

		if !isFeatureCredit(title) {
			logger.Debug().Str("external_id", externalID).Str("row", cleanText(row.Text())).Msg("Skipping annotated credit")
			return
		}

		result.Movies = append(result.Movies, models.MovieMetadata{
			ExternalID: externalID,
			Title:      cleanText(link.Text()),
		})
	})

	logger.Debug().Str("name", name).Int("movies", len(result.Movies)).Msg("Completed filmography parsing")
	return result, nil
}

// isFeatureCredit reports whether only whitespace follows the credit's <b>
// title element up to the line break. Shorts, series, videos and other
// non-feature credits carry a trailing annotation such as "(Short)".
func isFeatureCredit(title *goquery.Selection) bool {
	if title.Length() == 0 {
		return false
	}
	for n := title.Get(0).NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.Data == "br" {
			return true
		}
		switch n.Type {
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				return false
			}
		case html.CommentNode:
		default:
			return false
		}
	}
	return true
}
