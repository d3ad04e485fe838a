package models

import "fmt"

// MovieMetadata is a lightweight reference to a movie, as listed on a filmography page.
type MovieMetadata struct {
	ExternalID string `json:"externalId"`
	Title      string `json:"title"`
}

// MovieSummary is the canonical movie record returned by the metadata API.
type MovieSummary struct {
	ExternalID string
	Title      string
	Year       int
	Rating     float64
	BoxOffice  *int64
}

// Movie represents a fully resolved movie. Monetary amounts and runtime are nil
// when the source page does not list them.
type Movie struct {
	ExternalID         string   `json:"externalId" validate:"required"`
	Title              string   `json:"title" validate:"required"`
	Slug               string   `json:"slug"`
	Year               int      `json:"year" validate:"gte=0"`
	Rating             float64  `json:"rating" validate:"gte=0,lte=10"`
	Budget             *int64   `json:"budget,omitempty" validate:"omitnil,gte=0"`
	OpeningWeekend     *int64   `json:"openingWeekend,omitempty" validate:"omitnil,gte=0"`
	BoxofficeUSA       *int64   `json:"boxofficeUsa,omitempty" validate:"omitnil,gte=0"`
	BoxofficeWorldwide *int64   `json:"boxofficeWorldwide,omitempty" validate:"omitnil,gte=0"`
	Runtime            *int     `json:"runtime,omitempty" validate:"omitnil,gt=0"`
	Genres             []string `json:"genres"`
}

func (m Movie) String() string {
	return fmt.Sprintf("Movie[title=%s, year=%d, rating=%.1f]", m.Title, m.Year, m.Rating)
}
