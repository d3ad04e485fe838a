// Package insights summarizes rating trends of shows and directors.
package insights

import (
	"errors"

	"gonum.org/v1/gonum/stat"

	"github.com/mediainsights/vmi/internal/models"
)

// ErrNoData is returned when there is nothing rated to summarize.
var ErrNoData = errors.New("insights: no rated entries")

// Episodes summarizes a run of episodes in order.
type Episodes struct {
	Best    models.Episode
	Worst   models.Episode
	Average float64
	// Slope is the least-squares change in score per episode. It is 0 for
	// fewer than two episodes.
	Slope float64
	Count int
}

// Season holds the summary of a single season.
type Season struct {
	Number int
	Episodes
}

// Show holds the summary of a whole show and of each non-empty season.
type Show struct {
	Title   string
	Rating  float64
	Episodes
	Seasons []Season
}

// Director summarizes a director's movies.
type Director struct {
	Name    string
	Best    models.Movie
	Worst   models.Movie
	Average float64
	Count   int
}

// ForSeason summarizes one season.
func ForSeason(season models.Season) (*Season, error) {
	summary, err := forEpisodes(season.Episodes)
	if err != nil {
		return nil, err
	}
	return &Season{Number: season.Number, Episodes: summary}, nil
}

// ForShow summarizes every episode of the show in season order, plus each
// season that has episodes.
func ForShow(show models.Show) (*Show, error) {
	overall, err := forEpisodes(show.Episodes())
	if err != nil {
		return nil, err
	}

	result := &Show{Title: show.Title, Rating: show.Rating, Episodes: overall}
	for _, season := range show.Seasons {
		if season.EpisodeCount() == 0 {
			continue
		}
		s, err := ForSeason(season)
		if err != nil {
			return nil, err
		}
		result.Seasons = append(result.Seasons, *s)
	}
	return result, nil
}

// ForDirector summarizes a director's movies by rating. Ties go to the
// earliest movie.
func ForDirector(director models.Director) (*Director, error) {
	if len(director.Movies) == 0 {
		return nil, ErrNoData
	}

	ratings := make([]float64, len(director.Movies))
	best, worst := 0, 0
	for i, m := range director.Movies {
		ratings[i] = m.Rating
		if m.Rating > director.Movies[best].Rating {
			best = i
		}
		if m.Rating < director.Movies[worst].Rating {
			worst = i
		}
	}

	return &Director{
		Name:    director.Name,
		Best:    director.Movies[best],
		Worst:   director.Movies[worst],
		Average: stat.Mean(ratings, nil),
		Count:   len(director.Movies),
	}, nil
}

func forEpisodes(episodes []models.Episode) (Episodes, error) {
	if len(episodes) == 0 {
		return Episodes{}, ErrNoData
	}

	xs := make([]float64, len(episodes))
	scores := make([]float64, len(episodes))
	best, worst := 0, 0
	for i, e := range episodes {
		xs[i] = float64(i)
		scores[i] = e.Score
		if e.Score > episodes[best].Score {
			best = i
		}
		if e.Score < episodes[worst].Score {
			worst = i
		}
	}

	var slope float64
	if len(episodes) > 1 {
		_, slope = stat.LinearRegression(xs, scores, nil, false)
	}

	return Episodes{
		Best:    episodes[best],
		Worst:   episodes[worst],
		Average: stat.Mean(scores, nil),
		Slope:   slope,
		Count:   len(episodes),
	}, nil
}
