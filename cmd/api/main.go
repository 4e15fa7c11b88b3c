package main

import (
	"fmt"
	"os"

	"github.com/GoSim-25-26J-441/go-shop-backend/config"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "shopd",
	Short: "go-shop-backend API server",
	Long: `shopd serves the shop, task tracker and learning-content REST API.

Running it without a sub-command is the same as "shopd serve".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}

		level := cfg.App.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.App.Environment)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "data/content.yaml", "YAML fixture to load")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
