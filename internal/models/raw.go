package models

// EpisodeCandidate is one item row of a season page before acceptance checks.
// A zero EpisodeNumber means the page did not provide one; HasRating reports
// whether a rating element was present at all.
type EpisodeCandidate struct {
	EpisodeNumber int
	Title         string
	Rating        float64
	HasRating     bool
	ExternalID    string
}

// RawEpisode is an accepted episode row with its show-wide index assigned.
type RawEpisode struct {
	OverallIndex  int
	SeasonNumber  int
	EpisodeNumber int
	Title         string
	Score         float64
	ExternalID    string
}

// RawSeason holds the accepted episodes of one season page, in page order.
type RawSeason struct {
	Number   int
	Episodes []RawEpisode
}

// RawShow is the scraped season/episode tree of a show, in fetch order.
type RawShow struct {
	ExternalID string
	Seasons    []RawSeason
}

// RawMovie holds the detail fields scraped from a movie page.
type RawMovie struct {
	ExternalID         string
	Budget             *int64
	OpeningWeekend     *int64
	BoxofficeUSA       *int64
	BoxofficeWorldwide *int64
	Runtime            *int
	Genres             []string
}

// RawDirector holds what a filmography page yields: the name and feature
// director credits, most recent first.
type RawDirector struct {
	ExternalID string
	Name       string
	Movies     []MovieMetadata
}
