package parser

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mediainsights/vmi/internal/apperrors"
	"github.com/mediainsights/vmi/internal/config"
	"github.com/mediainsights/vmi/internal/models"
)

// Detail block labels on a title page
const (
	labelBudget         = "Budget:"
	labelOpeningWeekend = "Opening Weekend USA:"
	labelGrossUSA       = "Gross USA:"
	labelWorldwideGross = "Cumulative Worldwide Gross:"
	labelRuntime        = "Runtime:"
	labelGenres         = "Genres:"
)

var (
	amountPattern  = regexp.MustCompile(`\d[\d,]*`)
	minutesPattern = regexp.MustCompile(`\d+`)
)

// MovieParser extracts box office figures, runtime and genres from a title page.
// Every field is optional; only the details section itself is required.
type MovieParser struct{}

// NewMovieParser creates a new movie parser instance
func NewMovieParser() SingleResultParser[models.RawMovie] {
	return &MovieParser{}
}

// ParseHtml parses a title page. The caller fills in the movie's external id.
func (p *MovieParser) ParseHtml(body io.Reader) (models.RawMovie, error) {
	logger := config.GetLogger()

	doc, err := newDocument(body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse HTML document")
		return models.RawMovie{}, apperrors.WrapParseError(pageMovie, "document", err)
	}

	details := doc.Find("#titleDetails").First()
	if details.Length() == 0 {
		return models.RawMovie{}, apperrors.NewParseError(pageMovie, "#titleDetails")
	}

	blocks := labeledBlocks(details.Find("div.txt-block"))

	var result models.RawMovie
	amounts := []struct {
		label string
		dest  **int64
	}{
		{labelBudget, &result.Budget},
		{labelOpeningWeekend, &result.OpeningWeekend},
		{labelGrossUSA, &result.BoxofficeUSA},
		{labelWorldwideGross, &result.BoxofficeWorldwide},
	}
	for _, a := range amounts {
		value, ok := blocks[a.label]
		if !ok {
			continue
		}
		amount, err := parseAmount(value)
		if err != nil {
			return models.RawMovie{}, apperrors.WrapParseError(pageMovie, a.label, err)
		}
		*a.dest = &amount
	}

	if value, ok := blocks[labelRuntime]; ok {
		minutes, err := parseMinutes(value)
		if err != nil {
			return models.RawMovie{}, apperrors.WrapParseError(pageMovie, labelRuntime, err)
		}
		result.Runtime = &minutes
	}

	result.Genres = p.extractGenres(doc.Find("#titleStoryLine").First())

	logger.Debug().
		Bool("budget", result.Budget != nil).
		Bool("gross_usa", result.BoxofficeUSA != nil).
		Bool("runtime", result.Runtime != nil).
		Strs("genres", result.Genres).
		Msg("Completed movie page parsing")
	return result, nil
}

func (p *MovieParser) extractGenres(storyLine *goquery.Selection) []string {
	genres := []string{}
	seen := make(map[string]bool)
	storyLine.Find("div").Each(func(_ int, block *goquery.Selection) {
		if cleanText(block.ChildrenFiltered("h4.inline").First().Text()) != labelGenres {
			return
		}
		block.Find("a").Each(func(_ int, link *goquery.Selection) {
			genre := cleanText(link.Text())
			if genre == "" || seen[genre] {
				return
			}
			seen[genre] = true
			genres = append(genres, genre)
		})
	})
	return genres
}

// labeledBlocks maps each block's h4.inline label to the rest of its text.
// The first block carrying a label wins.
func labeledBlocks(blocks *goquery.Selection) map[string]string {
	result := make(map[string]string)
	blocks.Each(func(_ int, block *goquery.Selection) {
		heading := block.Find("h4.inline").First()
		if heading.Length() == 0 {
			return
		}
		label := cleanText(heading.Text())
		if _, seen := result[label]; seen {
			return
		}
		value := strings.TrimPrefix(cleanText(block.Text()), label)
		result[label] = strings.TrimSpace(value)
	})
	return result
}

// parseAmount reads the first number of a block such as "$5,500,000 (estimated)".
func parseAmount(value string) (int64, error) {
	match := amountPattern.FindString(value)
	if match == "" {
		return 0, fmt.Errorf("no amount in %q", value)
	}
	return strconv.ParseInt(strings.ReplaceAll(match, ",", ""), 10, 64)
}

// parseMinutes reads the first number of a block such as "129 min".
func parseMinutes(value string) (int, error) {
	match := minutesPattern.FindString(value)
	if match == "" {
		return 0, fmt.Errorf("no runtime in %q", value)
	}
	return strconv.Atoi(match)
}
