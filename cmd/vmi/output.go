package main

import (
	"fmt"
	"io"

	"github.com/mediainsights/vmi/internal/insights"
	"github.com/mediainsights/vmi/internal/models"
)

func printShow(w io.Writer, show *models.Show) error {
	summary, err := insights.ForShow(*show)
	if err != nil {
		return fmt.Errorf("failed to summarize %s: %w", show.Title, err)
	}

	fmt.Fprintf(w, "Show: %s (%d seasons, %d episodes)\n", show.Title, show.SeasonCount(), show.EpisodeCount())
	fmt.Fprintf(w, "  slope: %.1f%%\n", summary.Slope*100)
	fmt.Fprintf(w, "  imdb rating: %.1f/10\n", show.Rating)
	fmt.Fprintf(w, "  avg episode rating: %.2f/10\n", summary.Average)
	fmt.Fprintf(w, "  best:  %s - %s (%.1f/10)\n", summary.Best.Label(), summary.Best.Title, summary.Best.Score)
	fmt.Fprintf(w, "  worst: %s - %s (%.1f/10)\n\n", summary.Worst.Label(), summary.Worst.Title, summary.Worst.Score)

	for _, season := range summary.Seasons {
		fmt.Fprintf(w, "Season %d\n", season.Number)
		fmt.Fprintf(w, "  slope: %.1f%%\n", season.Slope*100)
		fmt.Fprintf(w, "  avg episode rating: %.2f/10\n", season.Average)
		fmt.Fprintf(w, "  best:  (%d/%d) %s (%.1f/10)\n", season.Best.EpisodeNumber, season.Count, season.Best.Title, season.Best.Score)
		fmt.Fprintf(w, "  worst: (%d/%d) %s (%.1f/10)\n\n", season.Worst.EpisodeNumber, season.Count, season.Worst.Title, season.Worst.Score)
	}
	return nil
}

func printDirector(w io.Writer, director *models.Director) error {
	summary, err := insights.ForDirector(*director)
	if err != nil {
		return fmt.Errorf("failed to summarize %s: %w", director.Name, err)
	}

	fmt.Fprintf(w, "Director: %s\n", director.Name)
	fmt.Fprintf(w, "  avg movie rating: %.2f/10\n", summary.Average)
	fmt.Fprintf(w, "  best:  %s (%.1f/10)\n", summary.Best.Title, summary.Best.Rating)
	fmt.Fprintf(w, "  worst: %s (%.1f/10)\n\n", summary.Worst.Title, summary.Worst.Rating)

	for _, movie := range director.Movies {
		fmt.Fprintf(w, "%d  %s (%.1f/10)", movie.Year, movie.Title, movie.Rating)
		if movie.BoxofficeUSA != nil {
			fmt.Fprintf(w, "  gross USA $%d", *movie.BoxofficeUSA)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func printReviews(w io.Writer, reviews []models.Review) {
	for i, review := range reviews {
		if i > 0 {
			fmt.Fprintln(w, "----")
		}
		fmt.Fprintln(w, review.String())
	}
}
