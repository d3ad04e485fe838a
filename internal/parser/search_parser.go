package parser

import (
	"io"

	"github.com/mediainsights/vmi/internal/apperrors"
	"github.com/mediainsights/vmi/internal/config"
)

// NameSearchParser picks the first person result of a name search page.
type NameSearchParser struct {
	query string
}

// NewNameSearchParser creates a parser for the results of searching query.
// The query is only used to describe a miss.
func NewNameSearchParser(query string) SingleResultParser[string] {
	return &NameSearchParser{query: query}
}

// ParseHtml returns the external id of the first name result, or
// ErrNotFound when the page lists none.
func (p *NameSearchParser) ParseHtml(body io.Reader) (string, error) {
	logger := config.GetLogger()

	doc, err := newDocument(body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse HTML document")
		return "", apperrors.WrapParseError(pageSearch, "document", err)
	}

	link := doc.Find(`td.result_text a[href^="/name/"]`).First()
	href, _ := link.Attr("href")
	externalID := nameIDPattern.FindString(href)
	if externalID == "" {
		return "", apperrors.NewNotFoundError("director", p.query)
	}

	logger.Debug().Str("query", p.query).Str("external_id", externalID).Str("name", cleanText(link.Text())).Msg("Resolved name search")
	return externalID, nil
}
