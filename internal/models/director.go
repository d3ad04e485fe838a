package models

// DirectorMetadata describes a director and their feature filmography in the
// order the source page lists it (most recent first).
type DirectorMetadata struct {
	ExternalID string          `json:"externalId" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	Slug       string          `json:"slug"`
	Movies     []MovieMetadata `json:"movies"`
}

// Director is a director with every movie resolved, in chronological order.
type Director struct {
	ExternalID string  `json:"externalId"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	Movies     []Movie `json:"movies"`
}

// Review is a single user review. Reviews are never cached.
type Review struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (r Review) String() string {
	return r.Title + "\n\n" + r.Body
}
