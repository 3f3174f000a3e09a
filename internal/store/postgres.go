package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/catalog-sync/internal/listing"
)

var recordColumns = []string{
	"item_id", "category", "position", "generation", "fetched_at",
	"title", "original_title", "overview", "release_date", "poster_path", "backdrop_path",
	"original_language", "genre_ids", "popularity", "vote_average", "vote_count", "adult", "video",
}

const selectRecords = `
SELECT item_id, category, position, generation, fetched_at,
       title, original_title, overview, release_date, poster_path, backdrop_path,
       original_language, genre_ids, popularity, vote_average, vote_count, adult, video
FROM catalog_records
WHERE category = $1
ORDER BY position, seq`

// PostgresStore keeps records in the catalog_records table
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ RecordStore = (*PostgresStore)(nil)

// NewPostgresStore creates a store on pool. The schema comes from the database migrations.
// The store owns pool and closes it on Close.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Count returns the number of records stored under category
func (s *PostgresStore) Count(ctx context.Context, category listing.Category) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM catalog_records WHERE category = $1`, string(category),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count records of %s: %w", category, err)
	}
	return count, nil
}

// Get returns the records of category ordered by Position
func (s *PostgresStore) Get(ctx context.Context, category listing.Category) ([]listing.Record, error) {
	rows, err := s.pool.Query(ctx, selectRecords, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to read records of %s: %w", category, err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (listing.Record, error) {
		var r listing.Record
		var cat string
		err := row.Scan(
			&r.ID, &cat, &r.Position, &r.Generation, &r.FetchedAt,
			&r.Title, &r.OriginalTitle, &r.Overview, &r.ReleaseDate, &r.PosterPath, &r.BackdropPath,
			&r.OriginalLanguage, &r.GenreIDs, &r.Popularity, &r.VoteAverage, &r.VoteCount, &r.Adult, &r.Video,
		)
		r.Category = listing.Category(cat)
		r.FetchedAt = r.FetchedAt.UTC()
		if len(r.GenreIDs) == 0 {
			r.GenreIDs = nil
		}
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan records of %s: %w", category, err)
	}
	return records, nil
}

// DeleteAll removes every record of category
func (s *PostgresStore) DeleteAll(ctx context.Context, category listing.Category) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM catalog_records WHERE category = $1`, string(category)); err != nil {
		return fmt.Errorf("failed to delete records of %s: %w", category, err)
	}
	return nil
}

// InsertAll copies records into the table in a single transaction
func (s *PostgresStore) InsertAll(ctx context.Context, category listing.Category, records []listing.Record) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([][]any, len(records))
	for i, r := range records {
		genres := r.GenreIDs
		if genres == nil {
			genres = []int{}
		}
		rows[i] = []any{
			r.ID, string(category), r.Position, r.Generation, r.FetchedAt.UTC(),
			r.Title, r.OriginalTitle, r.Overview, r.ReleaseDate, r.PosterPath, r.BackdropPath,
			r.OriginalLanguage, genres, r.Popularity, r.VoteAverage, r.VoteCount, r.Adult, r.Video,
		}
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.CopyFrom(ctx, pgx.Identifier{"catalog_records"}, recordColumns, pgx.CopyFromRows(rows))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to insert records of %s: %w", category, err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
