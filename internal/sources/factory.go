package sources

import (
	"fmt"

	"github.com/stacklok/catalog-sync/internal/config"
	"github.com/stacklok/catalog-sync/internal/httpclient"
)

// defaultSourceFactory is the default implementation of SourceFactory
type defaultSourceFactory struct {
	httpClient httpclient.Client
}

var _ SourceFactory = (*defaultSourceFactory)(nil)

// NewSourceFactory creates a factory. When client is nil every api source
// builds its own client from its timeout setting.
func NewSourceFactory(client httpclient.Client) SourceFactory {
	return &defaultSourceFactory{httpClient: client}
}

// CreateSource creates and validates the source configured for a category
func (f *defaultSourceFactory) CreateSource(cfg *config.CategoryConfig) (RemoteSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("category configuration cannot be nil")
	}

	var src RemoteSource
	switch cfg.Source.Type {
	case config.SourceTypeAPI:
		src = NewAPISource(cfg.Name, cfg.Source.API, f.httpClient)
	case config.SourceTypeFile:
		src = NewFileSource(cfg.Source.File)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", cfg.Source.Type)
	}

	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("category %s: %w", cfg.Name, err)
	}
	return src, nil
}
