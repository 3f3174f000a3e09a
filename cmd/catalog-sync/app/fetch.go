package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	v1 "github.com/stacklok/catalog-sync/internal/api/v1"
	catalogapp "github.com/stacklok/catalog-sync/internal/app"
	"github.com/stacklok/catalog-sync/internal/config"
	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/sync/coordinator"
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch one category and print its items as JSON",
		Long: `Fetch one category through the cache and print its items as JSON on stdout.
A fresh category is served from storage, a stale one is refreshed first.

Examples:
  # Print the upcoming listing
  catalog-sync fetch --config config.yaml --category upcoming

  # Drop the cached listing and refresh it
  catalog-sync fetch --config config.yaml --category popular --refresh`,
		RunE: runFetch,
	}

	cmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	cmd.Flags().String("category", "", "Category to fetch (required)")
	cmd.Flags().Bool("refresh", false, "Invalidate the category before fetching")

	for _, name := range []string{"config", "category"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	return cmd
}

func runFetch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	name, err := cmd.Flags().GetString("category")
	if err != nil {
		return fmt.Errorf("failed to get category flag: %w", err)
	}
	refresh, err := cmd.Flags().GetBool("refresh")
	if err != nil {
		return fmt.Errorf("failed to get refresh flag: %w", err)
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	catalogApp, err := catalogapp.NewCatalogApp(ctx, catalogapp.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer catalogApp.Close()

	coord := catalogApp.GetComponents().Coordinator
	category := listing.Category(name)

	if refresh {
		if err := coord.Invalidate(ctx, category); err != nil {
			return fmt.Errorf("failed to invalidate category: %w", err)
		}
	}

	items, err := coordinator.CollectFetch(coord.Fetch(ctx, category))
	if err != nil {
		return err
	}
	if items == nil {
		items = []listing.Item{}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v1.ItemsResponse{Category: category, Items: items})
}
