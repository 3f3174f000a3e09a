package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stacklok/catalog-sync/internal/config"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}

			cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Valid configuration")
			fmt.Fprintf(out, "  Storage: %s\n", cfg.GetStorageType())
			fmt.Fprintf(out, "  Default TTL: %s\n", cfg.GetDefaultTTL())
			if interval := cfg.GetWarmInterval(); interval > 0 {
				fmt.Fprintf(out, "  Warm interval: %s\n", interval)
			}
			for i := range cfg.Categories {
				cat := &cfg.Categories[i]
				fmt.Fprintf(out, "  Category %s: %s source, ttl %s\n", cat.Name, cat.Source.Type, cfg.GetTTL(cat))
			}
			return nil
		},
	}

	cmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	if err := cmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
	return cmd
}
