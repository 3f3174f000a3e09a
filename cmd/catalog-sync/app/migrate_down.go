package app

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/spf13/cobra"

	"github.com/stacklok/catalog-sync/database"
)

func newMigrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Migrate the database down",
		Long: `Migrate the database schema down by reverting migrations.
WARNING: This operation drops cached records and sync state. Use with caution.

Examples:
  # Migrate down by 1 step
  catalog-sync migrate down --config config.yaml --num-steps 1 --yes

  # Migrate down all the way
  catalog-sync migrate down --config config.yaml --yes`,
		RunE: runMigrateDown,
	}
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	cfg, connString, err := setupMigration(cmd)
	if err != nil {
		return err
	}

	numSteps, err := cmd.Flags().GetUint("num-steps")
	if err != nil {
		return fmt.Errorf("failed to get num-steps flag: %w", err)
	}
	if numSteps > math.MaxInt32 {
		return fmt.Errorf("num-steps too large: %d", numSteps)
	}

	steps := "all migrations"
	if numSteps > 0 {
		steps = fmt.Sprintf("%d migration(s)", numSteps)
	}
	ok, err := confirm(cmd, fmt.Sprintf("About to revert %s on database %s@%s:%d/%s.",
		steps, cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	if err != nil {
		return err
	}
	if !ok {
		slog.Info("Migration cancelled by user")
		return nil
	}

	slog.Info("Reverting database migrations...", "steps", numSteps)
	if err := database.MigrateDown(connString, int(numSteps)); err != nil {
		return fmt.Errorf("failed to revert migrations: %w", err)
	}
	return nil
}
