package models

import "strings"

// EntityKind identifies the type of entity stored under a cache key
type EntityKind int

const (
	KindUnknown EntityKind = iota
	KindShow
	KindMovie
	KindDirector
)

// String returns the string representation of the kind
func (k EntityKind) String() string {
	switch k {
	case KindShow:
		return "show"
	case KindMovie:
		return "movie"
	case KindDirector:
		return "director"
	default:
		return "unknown"
	}
}

// ParseEntityKind converts a kind string to EntityKind
func ParseEntityKind(kindStr string) EntityKind {
	switch strings.ToLower(kindStr) {
	case "show":
		return KindShow
	case "movie":
		return KindMovie
	case "director":
		return KindDirector
	default:
		return KindUnknown
	}
}

// MarshalJSON implements json.Marshaler interface
func (k EntityKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (k *EntityKind) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	*k = ParseEntityKind(str)
	return nil
}

// EntityKey addresses one cached entity. The external ID alone names the
// persisted entry; the kind is checked when the entry is read or replaced.
type EntityKey struct {
	Kind       EntityKind
	ExternalID string
}

func (k EntityKey) String() string {
	return k.Kind.String() + "/" + k.ExternalID
}

// ShowKey returns the cache key of a show.
func ShowKey(externalID string) EntityKey {
	return EntityKey{Kind: KindShow, ExternalID: externalID}
}

// MovieKey returns the cache key of a movie.
func MovieKey(externalID string) EntityKey {
	return EntityKey{Kind: KindMovie, ExternalID: externalID}
}

// DirectorKey returns the cache key of a director's metadata.
func DirectorKey(externalID string) EntityKey {
	return EntityKey{Kind: KindDirector, ExternalID: externalID}
}
