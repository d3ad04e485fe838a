package models

import "fmt"

// ShowMetadata is the canonical summary of a show as reported by the metadata API.
// It only drives scraping and is never cached on its own.
type ShowMetadata struct {
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Rating      float64 `json:"rating"`
	ExternalID  string  `json:"externalId"`
	SeasonCount int     `json:"seasonCount"`
}

// Episode represents a single rated episode of a show
type Episode struct {
	OverallIndex  int     `json:"overallIndex" validate:"gt=0"`
	SeasonNumber  int     `json:"seasonNumber" validate:"gt=0"`
	EpisodeNumber int     `json:"episodeNumber" validate:"gt=0"`
	Title         string  `json:"title"`
	Score         float64 `json:"score" validate:"gt=0,lte=10"`
	ExternalID    string  `json:"externalId"`
}

// Label returns the conventional SSxEE label, e.g. "01x03".
func (e Episode) Label() string {
	return fmt.Sprintf("%02dx%02d", e.SeasonNumber, e.EpisodeNumber)
}

// Season represents the episodes of a show that share a season number
type Season struct {
	Number   int       `json:"number" validate:"gt=0"`
	Episodes []Episode `json:"episodes" validate:"dive"`
}

// EpisodeCount returns the number of episodes in the season.
func (s Season) EpisodeCount() int {
	return len(s.Episodes)
}

// Show represents a TV show together with all of its seasons and episodes
type Show struct {
	Title      string   `json:"title" validate:"required"`
	Slug       string   `json:"slug"`
	Rating     float64  `json:"rating" validate:"gte=0,lte=10"`
	ExternalID string   `json:"externalId" validate:"required"`
	Seasons    []Season `json:"seasons" validate:"dive"`
}

// SeasonCount returns the number of seasons in the show.
func (s Show) SeasonCount() int {
	return len(s.Seasons)
}

// EpisodeCount returns the total number of episodes across all seasons.
// It is always derived from the seasons and never stored.
func (s Show) EpisodeCount() int {
	total := 0
	for _, season := range s.Seasons {
		total += season.EpisodeCount()
	}
	return total
}

// Episodes returns every episode of the show in season order.
func (s Show) Episodes() []Episode {
	episodes := make([]Episode, 0, s.EpisodeCount())
	for _, season := range s.Seasons {
		episodes = append(episodes, season.Episodes...)
	}
	return episodes
}

func (s Show) String() string {
	return fmt.Sprintf("Show[title=%s, externalId=%s, seasonCount=%d, episodeCount=%d]",
		s.Title, s.ExternalID, s.SeasonCount(), s.EpisodeCount())
}
