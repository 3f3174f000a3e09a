// Package listing contains the data model shared by the cache, the stores and the sources.
//
// A RemoteItem is what a source returns, a Record is what a store persists and
// an Item is what callers of the coordinator see. Converting between them is
// done by the pure functions in mapper.go.
package listing

import (
	"strings"
	"time"
)

// Category is the partition key for stored records and sync state.
type Category string

// String returns the category name
func (c Category) String() string {
	return string(c)
}

// Validate checks that the category can be used as a partition key
func (c Category) Validate() error {
	if strings.TrimSpace(string(c)) == "" {
		return ErrInvalidCategory
	}
	return nil
}

// RemoteItem is a single entry as returned by a remote source
type RemoteItem struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Popularity       float64 `json:"popularity,omitempty"`
	VoteAverage      float64 `json:"vote_average,omitempty"`
	VoteCount        int     `json:"vote_count,omitempty"`
	Adult            bool    `json:"adult,omitempty"`
	Video            bool    `json:"video,omitempty"`
}

// Record is a stored entry. The pair (ID, Category) identifies it; the same ID
// may be stored independently under several categories.
type Record struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`

	// Position is the insertion order of the record inside its category
	Position int `json:"position"`

	// Generation identifies the refresh cycle that wrote the record
	Generation string `json:"generation"`

	FetchedAt time.Time `json:"fetched_at"`

	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Popularity       float64 `json:"popularity,omitempty"`
	VoteAverage      float64 `json:"vote_average,omitempty"`
	VoteCount        int     `json:"vote_count,omitempty"`
	Adult            bool    `json:"adult,omitempty"`
	Video            bool    `json:"video,omitempty"`
}

// Item is the caller facing projection of a Record. It carries no category.
type Item struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Popularity       float64 `json:"popularity,omitempty"`
	VoteAverage      float64 `json:"vote_average,omitempty"`
	VoteCount        int     `json:"vote_count,omitempty"`
	Adult            bool    `json:"adult,omitempty"`
	Video            bool    `json:"video,omitempty"`
}
