package main

import (
	"github.com/spf13/cobra"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/server"
)

func newServeCommand() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return server.Run(cmd.Context(), cfg, autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", true, "Migrate the schema before serving")
	return cmd
}
