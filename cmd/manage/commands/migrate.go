package commands

import (
	"fmt"

	"github.com/pestozap/pestozap-backend/internal/database"
	"github.com/pestozap/pestozap-backend/internal/model"
	"github.com/spf13/cobra"
)

var force bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.AutoMigrate(model.All()...); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var resetdbCmd = &cobra.Command{
	Use:   "resetdb",
	Short: "Drop and recreate every table",
	Long: `Drop every application table and migrate again. All data is lost.

Examples:
  manage resetdb --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !force {
			return fmt.Errorf("resetdb destroys all data, rerun with --force")
		}
		if err := database.DropTables(model.All()...); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
		if err := database.AutoMigrate(model.All()...); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "database reset")
		return nil
	},
}

func init() {
	resetdbCmd.Flags().BoolVar(&force, "force", false, "confirm dropping all tables")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(resetdbCmd)
}
