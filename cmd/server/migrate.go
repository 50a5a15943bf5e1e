package main

import (
	"github.com/spf13/cobra"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/database"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/migrate"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := database.Connect(cfg.Database); err != nil {
				return err
			}
			defer database.Close()
			return migrate.Run(database.DB)
		},
	}
}
