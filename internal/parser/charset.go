package parser

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Page names used in parse errors.
const (
	pageSeason      = "season"
	pageFilmography = "filmography"
	pageMovie       = "movie"
	pageReviews     = "reviews"
	pageSearch      = "search"
)

var (
	titleIDPattern = regexp.MustCompile(`tt\d+`)
	nameIDPattern  = regexp.MustCompile(`nm\d+`)
)

// NewUTF8Reader wraps an io.Reader with automatic character encoding detection and conversion to UTF-8.
// The charset is taken from a BOM, a <meta> declaration or, failing both, a
// content sniff. UTF-8 input passes through unchanged.
func NewUTF8Reader(body io.Reader) (io.Reader, error) {
	return charset.NewReader(body, "")
}

// newDocument decodes body to UTF-8 and parses it into a goquery document.
func newDocument(body io.Reader) (*goquery.Document, error) {
	utf8Body, err := NewUTF8Reader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode HTML charset: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(utf8Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// cleanText collapses whitespace runs, non-breaking spaces included, to single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
