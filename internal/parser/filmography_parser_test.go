package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/mediainsights/vmi/internal/apperrors"
	"github.com/mediainsights/vmi/internal/models"
	"github.com/mediainsights/vmi/internal/testutil"
)

func TestFilmographyParser_ParseHtml(t *testing.T) {
	html := testutil.GenerateFilmographyHTML("Satoshi Kon", []testutil.CreditOptions{
		{ExternalID: "tt0851578", Title: "Paprika", Year: 2006},
		{ExternalID: "tt0432125", Title: "Paranoia Agent", Year: 2004, Annotation: "(TV Series)"},
		{ExternalID: "tt0388473", Title: "Tokyo Godfathers", Year: 2003},
		{ExternalID: "tt0291350", Title: "Ani*Kuri15", Year: 2007, Annotation: "(Short)"},
		{ExternalID: "tt0156887", Title: "Perfect Blue", Year: 1997},
		{ExternalID: "tt0113824", Title: "Memories", Year: 1995, Category: "writer"},
	})

	got, err := NewFilmographyParser().ParseHtml(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ParseHtml failed: %v", err)
	}

	if got.Name != "Satoshi Kon" {
		t.Errorf("Name = %q, want %q", got.Name, "Satoshi Kon")
	}
	want := []models.MovieMetadata{
		{ExternalID: "tt0851578", Title: "Paprika"},
		{ExternalID: "tt0388473", Title: "Tokyo Godfathers"},
		{ExternalID: "tt0156887", Title: "Perfect Blue"},
	}
	if len(got.Movies) != len(want) {
		t.Fatalf("Expected %d movies, got %d: %+v", len(want), len(got.Movies), got.Movies)
	}
	for i := range want {
		if got.Movies[i] != want[i] {
			t.Errorf("Movie %d = %+v, want %+v", i, got.Movies[i], want[i])
		}
	}
}

func TestFilmographyParser_StructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"missing name", `<html><body><div id="filmography"></div></body></html>`},
		{"missing filmography", `<html><body><h1 class="header"><span class="itemprop">Someone</span></h1></body></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFilmographyParser().ParseHtml(strings.NewReader(tt.html))
			if !errors.Is(err, &apperrors.ErrParse{}) {
				t.Fatalf("Expected ErrParse, got %v", err)
			}
		})
	}
}

func TestIsFeatureCredit(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want bool
	}{
		{"plain credit", `<b><a href="/title/tt1/">Film</a></b>
<br/>`, true},
		{"comment before break", `<b><a href="/title/tt1/">Film</a></b> <!-- note --> <br/>`, true},
		{"short annotation", `<b><a href="/title/tt1/">Film</a></b> (Short) <br/>`, false},
		{"element after title", `<b><a href="/title/tt1/">Film</a></b> <span>(Video)</span><br/>`, false},
		{"no break", `<b><a href="/title/tt1/">Film</a></b>`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := newDocument(strings.NewReader(`<div class="filmo-row">` + tt.row + `</div>`))
			if err != nil {
				t.Fatalf("newDocument failed: %v", err)
			}
			if got := isFeatureCredit(doc.Find("div.filmo-row b").First()); got != tt.want {
				t.Errorf("isFeatureCredit() = %v, want %v", got, tt.want)
			}
		})
	}
}
