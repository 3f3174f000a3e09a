package coordinator

import (
	"fmt"
	"time"

	"github.com/stacklok/catalog-sync/internal/config"
	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/sources"
)

// Binding ties a category to its source and cache policy
type Binding struct {
	Category listing.Category
	Source   sources.RemoteSource
	TTL      time.Duration

	// AllowEmpty accepts an empty item array as a valid refresh
	AllowEmpty bool
}

// BindingsFromConfig creates one binding per configured category, in configuration order
func BindingsFromConfig(cfg *config.Config, factory sources.SourceFactory) ([]Binding, error) {
	bindings := make([]Binding, 0, len(cfg.Categories))
	for i := range cfg.Categories {
		catCfg := &cfg.Categories[i]
		source, err := factory.CreateSource(catCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create source: %w", err)
		}
		bindings = append(bindings, Binding{
			Category:   listing.Category(catCfg.Name),
			Source:     source,
			TTL:        cfg.GetTTL(catCfg),
			AllowEmpty: catCfg.AllowEmpty,
		})
	}
	return bindings, nil
}

// getTTL returns the binding TTL, or the default one when unset
func getTTL(b *Binding) time.Duration {
	if b.TTL > 0 {
		return b.TTL
	}
	return config.DefaultTTL
}
