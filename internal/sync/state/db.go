package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/status"
)

type dbTimeTracker struct {
	pool *pgxpool.Pool
}

// NewDBTimeTracker creates a tracker on the category_syncs table
func NewDBTimeTracker(pool *pgxpool.Pool) TimeTracker {
	return &dbTimeTracker{pool: pool}
}

func (d *dbTimeTracker) GetSyncStatus(ctx context.Context, category listing.Category) (*status.SyncStatus, error) {
	s := &status.SyncStatus{}
	err := d.pool.QueryRow(ctx,
		`SELECT last_sync_time, item_count, generation FROM category_syncs WHERE category = $1`,
		string(category),
	).Scan(&s.LastSyncTime, &s.ItemCount, &s.Generation)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sync status of %s: %w", category, err)
	}
	s.LastSyncTime = s.LastSyncTime.UTC()
	return s, nil
}

func (d *dbTimeTracker) UpdateSyncStatus(ctx context.Context, category listing.Category, syncStatus *status.SyncStatus) error {
	if syncStatus == nil {
		return fmt.Errorf("sync status cannot be nil")
	}
	_, err := d.pool.Exec(ctx, `
INSERT INTO category_syncs (category, last_sync_time, item_count, generation)
VALUES ($1, $2, $3, $4)
ON CONFLICT (category) DO UPDATE
SET last_sync_time = EXCLUDED.last_sync_time,
    item_count = EXCLUDED.item_count,
    generation = EXCLUDED.generation`,
		string(category), syncStatus.LastSyncTime.UTC(), syncStatus.ItemCount, syncStatus.Generation,
	)
	if err != nil {
		return fmt.Errorf("failed to write sync status of %s: %w", category, err)
	}
	return nil
}

func (d *dbTimeTracker) ListSyncStatuses(ctx context.Context) (map[listing.Category]*status.SyncStatus, error) {
	rows, err := d.pool.Query(ctx, `SELECT category, last_sync_time, item_count, generation FROM category_syncs`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync statuses: %w", err)
	}
	defer rows.Close()

	result := make(map[listing.Category]*status.SyncStatus)
	for rows.Next() {
		var category string
		s := &status.SyncStatus{}
		if err := rows.Scan(&category, &s.LastSyncTime, &s.ItemCount, &s.Generation); err != nil {
			return nil, fmt.Errorf("failed to scan sync status: %w", err)
		}
		s.LastSyncTime = s.LastSyncTime.UTC()
		result[listing.Category(category)] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sync statuses: %w", err)
	}
	return result, nil
}
