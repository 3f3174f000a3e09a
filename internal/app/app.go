// Package app provides application lifecycle management for the catalog server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/stacklok/catalog-sync/internal/config"
)

// CatalogApp encapsulates all components needed to run the catalog API server
// It provides lifecycle management and graceful shutdown capabilities
type CatalogApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// Start starts the application components (HTTP server and cache warmer)
// This method blocks until the HTTP server stops or encounters an error
func (app *CatalogApp) Start() error {
	if app.components.Warmer != nil {
		go func() {
			if err := app.components.Warmer.Start(app.ctx); err != nil {
				slog.Error("Cache warmer failed", "error", err)
			}
		}()
	}

	slog.Info("Server listening", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application with the given timeout
// It stops the warmer, shuts down the HTTP server and releases storage
func (app *CatalogApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server...")

	if app.components.Warmer != nil {
		if err := app.components.Warmer.Stop(); err != nil {
			slog.Error("Failed to stop cache warmer", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	shutdownErr := app.httpServer.Shutdown(shutdownCtx)

	// Storage is released after the server has drained
	app.Close()

	if shutdownErr != nil {
		return fmt.Errorf("server forced to shutdown: %w", shutdownErr)
	}

	slog.Info("Server shutdown complete")
	return nil
}

// Close releases the storage held by the application without touching the
// HTTP server. Used by commands that never call Start.
func (app *CatalogApp) Close() {
	if app.cancelFunc != nil {
		app.cancelFunc()
	}
}

// GetConfig returns the application configuration
func (app *CatalogApp) GetConfig() *config.Config {
	return app.config
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *CatalogApp) GetHTTPServer() *http.Server {
	return app.httpServer
}

// GetComponents returns the wired application components
func (app *CatalogApp) GetComponents() *AppComponents {
	return app.components
}
