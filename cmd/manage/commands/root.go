// Package commands implements the manage CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/pestozap/pestozap-backend/internal/config"
	"github.com/pestozap/pestozap-backend/internal/database"
	"github.com/pestozap/pestozap-backend/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configFile string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "manage",
	Short: "Administrative tasks for the pestozap backend",
	Long: `manage runs one-off maintenance tasks against the configured database.

Commands:
  migrate          - create or update tables
  resetdb          - drop and recreate every table
  createsuperuser  - create an administrator account
  seed             - insert the stock blog categories and tags`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return database.Init(&cfg.Database)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		logger.Sync()
		return database.Close()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default configs/config.yaml or ./config.yaml)")
}
