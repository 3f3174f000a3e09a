// Package status provides sync status tracking and persistence for cached categories.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

//go:generate mockgen -destination=mocks/mock_status_persistence.go -package=mocks -source=persistence.go StatusPersistence

const (
	// StatusFileName is the name of the status file
	StatusFileName = "status.json"
)

// StatusPersistence defines the interface for sync status persistence
//
//nolint:revive // This name is fine
type StatusPersistence interface {
	// SaveStatus saves the sync status to persistent storage for a specific category
	SaveStatus(ctx context.Context, category string, status *SyncStatus) error

	// LoadStatus loads the sync status from persistent storage for a specific category
	// Returns nil if nothing has been saved yet (first run)
	LoadStatus(ctx context.Context, category string) (*SyncStatus, error)

	// LoadAllStatus loads sync status for all categories
	LoadAllStatus(ctx context.Context) (map[string]*SyncStatus, error)
}

// fileStatusPersistence implements StatusPersistence using local filesystem
type fileStatusPersistence struct {
	basePath string
}

// NewFileStatusPersistence creates a new file-based status persistence
// basePath is the base directory where per-category status files will be stored
func NewFileStatusPersistence(basePath string) StatusPersistence {
	return &fileStatusPersistence{
		basePath: basePath,
	}
}

// categoryDir maps a category to its directory. Category names are escaped so
// that they can never leave basePath.
func (f *fileStatusPersistence) categoryDir(category string) (string, error) {
	escaped := url.PathEscape(category)
	if escaped == "" || escaped == "." || escaped == ".." {
		return "", fmt.Errorf("invalid category name for status file: %q", category)
	}
	return filepath.Join(f.basePath, escaped), nil
}

// SaveStatus saves the sync status to a JSON file in a category-specific directory
func (f *fileStatusPersistence) SaveStatus(_ context.Context, category string, status *SyncStatus) error {
	if status == nil {
		return fmt.Errorf("status for category '%s' cannot be nil", category)
	}

	categoryDir, err := f.categoryDir(category)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(categoryDir, 0750); err != nil {
		return fmt.Errorf("failed to create status directory for category '%s': %w", category, err)
	}

	filePath := filepath.Join(categoryDir, StatusFileName)

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status data for category '%s': %w", category, err)
	}

	// Write to temporary file first for atomic operation
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary status file for category '%s': %w", category, err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename status file for category '%s': %w", category, err)
	}

	return nil
}

// LoadStatus loads the sync status from a JSON file for a specific category
func (f *fileStatusPersistence) LoadStatus(_ context.Context, category string) (*SyncStatus, error) {
	categoryDir, err := f.categoryDir(category)
	if err != nil {
		return nil, err
	}
	filePath := filepath.Join(categoryDir, StatusFileName)

	// #nosec G304 -- filePath is basePath joined with an escaped category name
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read status file for category '%s': %w", category, err)
	}

	var status SyncStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status data for category '%s': %w", category, err)
	}

	return &status, nil
}

// LoadAllStatus loads sync status for all categories
func (f *fileStatusPersistence) LoadAllStatus(ctx context.Context) (map[string]*SyncStatus, error) {
	result := make(map[string]*SyncStatus)

	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to read status directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		category, err := url.PathUnescape(entry.Name())
		if err != nil {
			continue
		}
		status, err := f.LoadStatus(ctx, category)
		if err != nil || status == nil {
			// Skip unreadable entries so one bad file does not hide the others
			continue
		}

		result[category] = status
	}

	return result, nil
}
