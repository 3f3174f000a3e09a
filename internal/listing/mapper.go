package listing

import (
	"slices"
	"time"
)

// ToRecord converts a remote item into a record tagged with the category
func ToRecord(item RemoteItem, category Category, position int, generation string, fetchedAt time.Time) Record {
	return Record{
		ID:               item.ID,
		Category:         category,
		Position:         position,
		Generation:       generation,
		FetchedAt:        fetchedAt,
		Title:            item.Title,
		OriginalTitle:    item.OriginalTitle,
		Overview:         item.Overview,
		ReleaseDate:      item.ReleaseDate,
		PosterPath:       item.PosterPath,
		BackdropPath:     item.BackdropPath,
		OriginalLanguage: item.OriginalLanguage,
		GenreIDs:         slices.Clone(item.GenreIDs),
		Popularity:       item.Popularity,
		VoteAverage:      item.VoteAverage,
		VoteCount:        item.VoteCount,
		Adult:            item.Adult,
		Video:            item.Video,
	}
}

// ToRecords converts remote items into records, numbering positions from zero
func ToRecords(items []RemoteItem, category Category, generation string, fetchedAt time.Time) []Record {
	records := make([]Record, len(items))
	for i, item := range items {
		records[i] = ToRecord(item, category, i, generation, fetchedAt)
	}
	return records
}

// ToItem projects a record onto its category agnostic fields
func (r Record) ToItem() Item {
	return Item{
		ID:               r.ID,
		Title:            r.Title,
		OriginalTitle:    r.OriginalTitle,
		Overview:         r.Overview,
		ReleaseDate:      r.ReleaseDate,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		OriginalLanguage: r.OriginalLanguage,
		GenreIDs:         slices.Clone(r.GenreIDs),
		Popularity:       r.Popularity,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Adult:            r.Adult,
		Video:            r.Video,
	}
}

// ToItems maps records to items, keeping their order
func ToItems(records []Record) []Item {
	items := make([]Item, len(records))
	for i, r := range records {
		items[i] = r.ToItem()
	}
	return items
}

// ToRemote is the inverse of the item projection
func (i Item) ToRemote() RemoteItem {
	return RemoteItem{
		ID:               i.ID,
		Title:            i.Title,
		OriginalTitle:    i.OriginalTitle,
		Overview:         i.Overview,
		ReleaseDate:      i.ReleaseDate,
		PosterPath:       i.PosterPath,
		BackdropPath:     i.BackdropPath,
		OriginalLanguage: i.OriginalLanguage,
		GenreIDs:         slices.Clone(i.GenreIDs),
		Popularity:       i.Popularity,
		VoteAverage:      i.VoteAverage,
		VoteCount:        i.VoteCount,
		Adult:            i.Adult,
		Video:            i.Video,
	}
}
