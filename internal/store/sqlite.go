package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stacklok/catalog-sync/internal/listing"
)

// SQLiteFileName is the database file created inside the data directory
const SQLiteFileName = "catalog.sqlite"

// recordModel is the gorm row of a listing record
type recordModel struct {
	Seq              uint      `gorm:"primaryKey;autoIncrement"`
	ItemID           string    `gorm:"not null"`
	Category         string    `gorm:"not null;index:idx_records_category_position,priority:1"`
	Position         int       `gorm:"not null;index:idx_records_category_position,priority:2"`
	Generation       string    `gorm:"not null"`
	FetchedAt        time.Time `gorm:"not null"`
	Title            string
	OriginalTitle    string
	Overview         string
	ReleaseDate      string
	PosterPath       string
	BackdropPath     string
	OriginalLanguage string
	GenreIDs         []int `gorm:"serializer:json"`
	Popularity       float64
	VoteAverage      float64
	VoteCount        int
	Adult            bool
	Video            bool
}

// TableName overrides the gorm default table name
func (recordModel) TableName() string {
	return "catalog_records"
}

func toModel(r listing.Record, category listing.Category) recordModel {
	return recordModel{
		ItemID:           r.ID,
		Category:         string(category),
		Position:         r.Position,
		Generation:       r.Generation,
		FetchedAt:        r.FetchedAt.UTC(),
		Title:            r.Title,
		OriginalTitle:    r.OriginalTitle,
		Overview:         r.Overview,
		ReleaseDate:      r.ReleaseDate,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		OriginalLanguage: r.OriginalLanguage,
		GenreIDs:         r.GenreIDs,
		Popularity:       r.Popularity,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Adult:            r.Adult,
		Video:            r.Video,
	}
}

func (m recordModel) toRecord() listing.Record {
	return listing.Record{
		ID:               m.ItemID,
		Category:         listing.Category(m.Category),
		Position:         m.Position,
		Generation:       m.Generation,
		FetchedAt:        m.FetchedAt.UTC(),
		Title:            m.Title,
		OriginalTitle:    m.OriginalTitle,
		Overview:         m.Overview,
		ReleaseDate:      m.ReleaseDate,
		PosterPath:       m.PosterPath,
		BackdropPath:     m.BackdropPath,
		OriginalLanguage: m.OriginalLanguage,
		GenreIDs:         m.GenreIDs,
		Popularity:       m.Popularity,
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
		Adult:            m.Adult,
		Video:            m.Video,
	}
}

// SQLiteStore keeps records in SQLite through gorm
type SQLiteStore struct {
	db *gorm.DB
}

var _ RecordStore = (*SQLiteStore)(nil)

// OpenSQLite opens the database file inside dir. An empty dir opens an in-memory database.
func OpenSQLite(dir string) (*gorm.DB, error) {
	dsn := ":memory:"
	if dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dsn = filepath.Join(dir, SQLiteFileName) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if dir == "" {
		// every pooled connection would otherwise get its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// NewSQLiteStore migrates the records table and returns the store
func NewSQLiteStore(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&recordModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate records table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Count returns the number of records stored under category
func (s *SQLiteStore) Count(ctx context.Context, category listing.Category) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&recordModel{}).
		Where("category = ?", string(category)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count records of %s: %w", category, err)
	}
	return int(count), nil
}

// Get returns the records of category ordered by Position
func (s *SQLiteStore) Get(ctx context.Context, category listing.Category) ([]listing.Record, error) {
	var rows []recordModel
	err := s.db.WithContext(ctx).
		Where("category = ?", string(category)).
		Order("position, seq").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read records of %s: %w", category, err)
	}

	records := make([]listing.Record, len(rows))
	for i, row := range rows {
		records[i] = row.toRecord()
	}
	return records, nil
}

// DeleteAll removes every record of category
func (s *SQLiteStore) DeleteAll(ctx context.Context, category listing.Category) error {
	err := s.db.WithContext(ctx).
		Where("category = ?", string(category)).
		Delete(&recordModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete records of %s: %w", category, err)
	}
	return nil
}

// InsertAll appends records to category in a single transaction
func (s *SQLiteStore) InsertAll(ctx context.Context, category listing.Category, records []listing.Record) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]recordModel, len(records))
	for i, r := range records {
		rows[i] = toModel(r, category)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return fmt.Errorf("failed to insert records of %s: %w", category, err)
	}
	return nil
}

// Close closes the underlying connection pool
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
