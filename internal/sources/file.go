package sources

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/stacklok/catalog-sync/internal/config"
)

// fileSource reads a listing from a local JSON file
type fileSource struct {
	cfg *config.FileConfig
}

// NewFileSource creates a source reading cfg.Path on every fetch
func NewFileSource(cfg *config.FileConfig) RemoteSource {
	return &fileSource{cfg: cfg}
}

// Validate validates the file source configuration
func (s *fileSource) Validate() error {
	if s.cfg == nil {
		return fmt.Errorf("file configuration is required")
	}
	if s.cfg.Path == "" {
		return fmt.Errorf("file path cannot be empty")
	}
	return nil
}

// Fetch reads and parses the file
func (s *fileSource) Fetch(ctx context.Context) (*FetchResult, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("source validation failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	//nolint:gosec // File path comes from user configuration, this is expected behavior
	data, err := os.ReadFile(s.cfg.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s", s.cfg.Path)
		}
		return nil, fmt.Errorf("failed to read file %s: %w", s.cfg.Path, err)
	}

	result, err := parsePayload(data, s.cfg.GetItemsPath())
	if err != nil {
		return nil, fmt.Errorf("invalid file %s: %w", s.cfg.Path, err)
	}

	return result, nil
}
