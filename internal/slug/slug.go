// Package slug derives URL- and filesystem-safe identifiers from titles and names.
package slug

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any run of characters that are not lowercase ASCII letters or digits.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
)

// Make converts a title to a slug.
// "Arrested Development" -> "arrested-development".
// "Amélie" -> "amelie".
// Non-Latin scripts are transliterated rather than rejected.
func Make(text string) string {
	// Fold compatibility forms (ligatures, full-width letters) before transliterating.
	s := norm.NFKC.String(text)

	s = unidecode.Unidecode(s)
	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}
