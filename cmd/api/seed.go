package main

import (
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/bootstrap"
	catalogrepo "github.com/GoSim-25-26J-441/go-shop-backend/internal/catalog/repository"
	catalogsvc "github.com/GoSim-25-26J-441/go-shop-backend/internal/catalog/service"
	learnrepo "github.com/GoSim-25-26J-441/go-shop-backend/internal/learning/repository"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:     "seed",
	Short:   "Load categories and learning content from a YAML fixture",
	Example: `  shopd seed --file data/content.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fx, err := seed.LoadFile(seedFile)
		if err != nil {
			return err
		}

		db, err := bootstrap.OpenDB(cmd.Context(), bootstrap.DBOptions{DSN: cfg.Database.DSN()})
		if err != nil {
			return err
		}
		defer db.Close()

		_, err = seed.Apply(cmd.Context(), fx, seed.Targets{
			Categories: catalogsvc.NewCategoryService(catalogrepo.NewCategoryRepository(db)),
			Quizzes:    learnrepo.NewQuizRepository(db),
			Games:      learnrepo.NewGameRepository(db),
			Content:    learnrepo.NewContentRepository(db),
		}, logger.With(zap.String("file", seedFile)))
		return err
	},
}
