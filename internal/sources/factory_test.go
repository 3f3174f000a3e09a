package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/catalog-sync/internal/config"
)

func TestSourceFactory_CreateSource(t *testing.T) {
	t.Parallel()

	factory := NewSourceFactory(nil)

	tests := []struct {
		name     string
		cfg      *config.CategoryConfig
		wantType any
		wantErr  string
	}{
		{
			name: "api",
			cfg: &config.CategoryConfig{Name: "upcoming", Source: config.SourceConfig{
				Type: config.SourceTypeAPI,
				API:  &config.APIConfig{Endpoint: "https://api.themoviedb.org/3/movie/upcoming"},
			}},
			wantType: &apiSource{},
		},
		{
			name: "file",
			cfg: &config.CategoryConfig{Name: "upcoming", Source: config.SourceConfig{
				Type: config.SourceTypeFile,
				File: &config.FileConfig{Path: "upcoming.json"},
			}},
			wantType: &fileSource{},
		},
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: "cannot be nil",
		},
		{
			name: "unsupported type",
			cfg: &config.CategoryConfig{Name: "upcoming", Source: config.SourceConfig{
				Type: "git",
			}},
			wantErr: "unsupported source type: git",
		},
		{
			name: "api without endpoint",
			cfg: &config.CategoryConfig{Name: "upcoming", Source: config.SourceConfig{
				Type: config.SourceTypeAPI,
				API:  &config.APIConfig{},
			}},
			wantErr: "category upcoming: api endpoint cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := factory.CreateSource(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, src)
		})
	}
}
