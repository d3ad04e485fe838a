package client

import (
	"fmt"

	"github.com/mediainsights/vmi/internal/apperrors"
)

// Resources named in not-found errors
const (
	resourceSeason   = "season"
	resourceDirector = "director"
	resourceMovie    = "movie"
	resourceReviews  = "reviews"
)

func newNotFoundError(resource, id string) *apperrors.ErrNotFound {
	return apperrors.NewNotFoundError(resource, id)
}

// newSeasonNotFoundError creates a specific error for a season page that does not exist
func newSeasonNotFoundError(showID string, season int) *apperrors.ErrNotFound {
	return apperrors.NewNotFoundError(resourceSeason, fmt.Sprintf("%s/%d", showID, season))
}
