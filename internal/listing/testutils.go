package listing

import "fmt"

// NewTestRemoteItems builds n remote items with predictable fields, for use in tests
func NewTestRemoteItems(prefix string, n int) []RemoteItem {
	items := make([]RemoteItem, n)
	for i := range items {
		items[i] = RemoteItem{
			ID:               fmt.Sprintf("%s-%d", prefix, i+1),
			Title:            fmt.Sprintf("%s title %d", prefix, i+1),
			Overview:         fmt.Sprintf("overview of %s %d", prefix, i+1),
			ReleaseDate:      "2026-11-01",
			PosterPath:       fmt.Sprintf("/%s-%d-poster.jpg", prefix, i+1),
			OriginalLanguage: "en",
			GenreIDs:         []int{18, 28 + i},
			Popularity:       float64(100 - i),
			VoteAverage:      7.5,
			VoteCount:        10 * (i + 1),
		}
	}
	return items
}
