package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/onsi/gomega"
	"k8s.io/utils/clock"

	v1 "github.com/stacklok/catalog-sync/internal/api/v1"
	catalogapp "github.com/stacklok/catalog-sync/internal/app"
	"github.com/stacklok/catalog-sync/internal/config"
)

// ServerTestHelper manages the catalog API server lifecycle for testing
type ServerTestHelper struct {
	ctx        context.Context
	configPath string
	baseURL    string
	address    string
	httpClient *http.Client
	clock      clock.Clock
	app        *catalogapp.CatalogApp
}

// NewServerTestHelper creates a helper serving configPath on a free local port.
// A nil clock uses the real one.
func NewServerTestHelper(ctx context.Context, configPath string, clk clock.Clock) (*ServerTestHelper, error) {
	port, err := freePort()
	if err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.RealClock{}
	}

	return &ServerTestHelper{
		ctx:        ctx,
		configPath: configPath,
		address:    fmt.Sprintf("127.0.0.1:%d", port),
		baseURL:    fmt.Sprintf("http://127.0.0.1:%d", port),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		clock:      clk,
	}, nil
}

func freePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to find a free port: %w", err)
	}
	defer func() {
		_ = listener.Close()
	}()
	return listener.Addr().(*net.TCPAddr).Port, nil
}

// StartServer starts the catalog API server programmatically
func (s *ServerTestHelper) StartServer() error {
	cfg, err := config.LoadConfig(config.WithConfigPath(s.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := catalogapp.NewCatalogApp(s.ctx,
		catalogapp.WithConfig(cfg),
		catalogapp.WithAddress(s.address),
		catalogapp.WithClock(s.clock),
	)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}
	s.app = app

	go func() {
		if err := app.Start(); err != nil {
			// The test fails when it tries to connect
			fmt.Fprintf(os.Stderr, "Server start failed: %v\n", err)
		}
	}()

	return nil
}

// StopServer gracefully stops the catalog API server
func (s *ServerTestHelper) StopServer() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Stop(5 * time.Second)
	s.app = nil
	return err
}

// WaitForServerReady waits for the server to be ready to accept requests
func (s *ServerTestHelper) WaitForServerReady(timeout time.Duration) {
	gomega.Eventually(func() error {
		resp, err := s.httpClient.Get(s.baseURL + "/health")
		if err != nil {
			return err
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		return nil
	}, timeout, 100*time.Millisecond).Should(gomega.Succeed(), "Server should be ready")
}

// GetItems makes a GET request to /v1/categories/{category}/items
func (s *ServerTestHelper) GetItems(category string) (*http.Response, error) {
	return s.httpClient.Get(fmt.Sprintf("%s/v1/categories/%s/items", s.baseURL, category))
}

// FetchItems gets the items of category and decodes them, expecting a 200
func (s *ServerTestHelper) FetchItems(category string) v1.ItemsResponse {
	resp, err := s.GetItems(category)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	defer func() {
		_ = resp.Body.Close()
	}()
	gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusOK))

	var body v1.ItemsResponse
	gomega.Expect(json.NewDecoder(resp.Body).Decode(&body)).To(gomega.Succeed())
	return body
}

// InvalidateItems makes a DELETE request to /v1/categories/{category}/items
func (s *ServerTestHelper) InvalidateItems(category string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(s.ctx, http.MethodDelete,
		fmt.Sprintf("%s/v1/categories/%s/items", s.baseURL, category), nil)
	if err != nil {
		return nil, err
	}
	return s.httpClient.Do(req)
}

// GetStatus makes a GET request to /v1/status and decodes it
func (s *ServerTestHelper) GetStatus() v1.StatusResponse {
	resp, err := s.httpClient.Get(s.baseURL + "/v1/status")
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	defer func() {
		_ = resp.Body.Close()
	}()
	gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusOK))

	var body v1.StatusResponse
	gomega.Expect(json.NewDecoder(resp.Body).Decode(&body)).To(gomega.Succeed())
	return body
}

// GetBaseURL returns the base URL of the server
func (s *ServerTestHelper) GetBaseURL() string {
	return s.baseURL
}
