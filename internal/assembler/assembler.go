// Package assembler turns metadata and scraped records into validated domain
// entities. It performs no I/O.
package assembler

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mediainsights/vmi/internal/apperrors"
	"github.com/mediainsights/vmi/internal/models"
	"github.com/mediainsights/vmi/internal/slug"
)

var validate = func() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}()

// Show builds a Show from its metadata and scraped seasons. Seasons are
// numbered 1..N in the order they were fetched.
func Show(metadata models.ShowMetadata, raw models.RawShow) (*models.Show, error) {
	show := &models.Show{
		Title:      metadata.Title,
		Slug:       metadata.Slug,
		Rating:     metadata.Rating,
		ExternalID: metadata.ExternalID,
		Seasons:    make([]models.Season, 0, len(raw.Seasons)),
	}
	if show.Slug == "" {
		show.Slug = slug.Make(metadata.Title)
	}

	for i, rawSeason := range raw.Seasons {
		number := i + 1
		season := models.Season{
			Number:   number,
			Episodes: make([]models.Episode, 0, len(rawSeason.Episodes)),
		}
		for _, e := range rawSeason.Episodes {
			season.Episodes = append(season.Episodes, models.Episode{
				OverallIndex:  e.OverallIndex,
				SeasonNumber:  number,
				EpisodeNumber: e.EpisodeNumber,
				Title:         e.Title,
				Score:         e.Score,
				ExternalID:    e.ExternalID,
			})
		}
		show.Seasons = append(show.Seasons, season)
	}

	if err := check(models.KindShow, show); err != nil {
		return nil, err
	}
	if err := checkIndexes(show); err != nil {
		return nil, err
	}
	if err := checkEpisodeNumbers(show); err != nil {
		return nil, err
	}
	return show, nil
}

// Movie builds a Movie from its API summary and scraped detail. The API box
// office figure stands in for the domestic gross when the page lacks one.
func Movie(summary models.MovieSummary, raw models.RawMovie) (*models.Movie, error) {
	movie := &models.Movie{
		ExternalID:         summary.ExternalID,
		Title:              summary.Title,
		Slug:               slug.Make(summary.Title),
		Year:               summary.Year,
		Rating:             summary.Rating,
		Budget:             raw.Budget,
		OpeningWeekend:     raw.OpeningWeekend,
		BoxofficeUSA:       raw.BoxofficeUSA,
		BoxofficeWorldwide: raw.BoxofficeWorldwide,
		Runtime:            raw.Runtime,
		Genres:             append([]string{}, raw.Genres...),
	}
	if movie.BoxofficeUSA == nil && summary.BoxOffice != nil {
		amount := *summary.BoxOffice
		movie.BoxofficeUSA = &amount
	}

	if err := check(models.KindMovie, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// DirectorMetadata builds the cacheable director record from a filmography scrape.
func DirectorMetadata(raw models.RawDirector) (*models.DirectorMetadata, error) {
	metadata := &models.DirectorMetadata{
		ExternalID: raw.ExternalID,
		Name:       raw.Name,
		Slug:       slug.Make(raw.Name),
		Movies:     append([]models.MovieMetadata{}, raw.Movies...),
	}
	if err := check(models.KindDirector, metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

// Director combines director metadata with its resolved movies, given in
// filmography order (most recent first), and returns them chronologically.
func Director(metadata models.DirectorMetadata, movies []models.Movie) *models.Director {
	chronological := make([]models.Movie, len(movies))
	for i, m := range movies {
		chronological[len(movies)-1-i] = m
	}
	return &models.Director{
		ExternalID: metadata.ExternalID,
		Name:       metadata.Name,
		Slug:       metadata.Slug,
		Movies:     chronological,
	}
}

// Reviews returns a copy of the scraped reviews with surrounding whitespace
// removed. Order and duplicates are preserved.
func Reviews(raw []models.Review) []models.Review {
	reviews := make([]models.Review, 0, len(raw))
	for _, r := range raw {
		reviews = append(reviews, models.Review{
			Title: strings.TrimSpace(r.Title),
			Body:  strings.TrimSpace(r.Body),
		})
	}
	return reviews
}

func check(kind models.EntityKind, entity any) error {
	err := validate.Struct(entity)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	sort.Strings(fields)
	return apperrors.WrapParseError(kind.String(), "assembled entity", errors.New(strings.Join(fields, "; ")))
}

// checkIndexes enforces that overall indexes strictly increase across seasons.
func checkIndexes(show *models.Show) error {
	last := 0
	for _, e := range show.Episodes() {
		if e.OverallIndex <= last {
			return apperrors.WrapParseError(models.KindShow.String(), "assembled entity",
				fmt.Errorf("episode %s has index %d after %d", e.Label(), e.OverallIndex, last))
		}
		last = e.OverallIndex
	}
	return nil
}

// checkEpisodeNumbers rejects a season listing the same episode number twice.
func checkEpisodeNumbers(show *models.Show) error {
	for _, season := range show.Seasons {
		seen := make(map[int]bool, len(season.Episodes))
		for _, e := range season.Episodes {
			if seen[e.EpisodeNumber] {
				return apperrors.WrapParseError(models.KindShow.String(), "assembled entity",
					fmt.Errorf("season %d lists episode %d twice", season.Number, e.EpisodeNumber))
			}
			seen[e.EpisodeNumber] = true
		}
	}
	return nil
}
