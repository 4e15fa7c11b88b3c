package main

import (
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/storage/postgres"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootstrap.OpenDB(cmd.Context(), bootstrap.DBOptions{DSN: cfg.Database.DSN()})
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := postgres.Migrate(cmd.Context(), db, logger)
		if err != nil {
			return err
		}
		logger.Info("migrations complete", zap.Strings("applied", applied))
		return nil
	},
}
