package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/stacklok/catalog-sync/internal/config"
	"github.com/stacklok/catalog-sync/internal/httpclient"
)

// tokenEnvVar is read when no token file is configured
const tokenEnvVar = config.EnvPrefix + "_API_TOKEN"

// apiSource fetches a listing from an HTTP JSON endpoint
type apiSource struct {
	category   string
	cfg        *config.APIConfig
	httpClient httpclient.Client
}

// NewAPISource creates a source for cfg. A nil client gets a default retrying
// client honoring cfg.Timeout.
func NewAPISource(category string, cfg *config.APIConfig, client httpclient.Client) RemoteSource {
	if client == nil && cfg != nil {
		client = httpclient.NewDefaultClient(cfg.GetTimeout())
	}
	return &apiSource{
		category:   category,
		cfg:        cfg,
		httpClient: client,
	}
}

// Validate validates the API source configuration
func (s *apiSource) Validate() error {
	if s.cfg == nil {
		return fmt.Errorf("api configuration is required")
	}
	if s.cfg.Endpoint == "" {
		return fmt.Errorf("api endpoint cannot be empty")
	}
	if _, err := url.Parse(s.cfg.Endpoint); err != nil {
		return fmt.Errorf("invalid api endpoint: %w", err)
	}
	return nil
}

// Fetch retrieves the listing from the endpoint
func (s *apiSource) Fetch(ctx context.Context) (*FetchResult, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("source validation failed: %w", err)
	}

	endpoint, err := s.requestURL()
	if err != nil {
		return nil, err
	}

	header, err := s.requestHeader()
	if err != nil {
		return nil, err
	}

	slog.Debug("Fetching listing", "category", s.category, "endpoint", s.cfg.Endpoint)

	data, err := s.httpClient.Get(ctx, endpoint, header)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.cfg.Endpoint, err)
	}

	result, err := parsePayload(data, s.cfg.GetItemsPath())
	if err != nil {
		return nil, fmt.Errorf("invalid response from %s: %w", s.cfg.Endpoint, err)
	}

	return result, nil
}

// requestURL merges the configured query parameters into the endpoint
func (s *apiSource) requestURL() (string, error) {
	u, err := url.Parse(s.cfg.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid api endpoint: %w", err)
	}
	if len(s.cfg.Query) == 0 {
		return u.String(), nil
	}

	q := u.Query()
	for k, v := range s.cfg.Query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *apiSource) requestHeader() (http.Header, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	return header, nil
}

// token reads the bearer token from TokenFile, falling back to CATALOG_SYNC_API_TOKEN
func (s *apiSource) token() (string, error) {
	if s.cfg.TokenFile != "" {
		data, err := os.ReadFile(filepath.Clean(s.cfg.TokenFile))
		if err != nil {
			return "", fmt.Errorf("failed to read token file %s: %w", s.cfg.TokenFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return os.Getenv(tokenEnvVar), nil
}
