package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/config"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/logs"
)

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "server",
		Short: "Social blogging server",
		Long: `Social blogging server: posts, groups, comments and a feed of followed authors.

Configuration is read from config.yaml (or $CONFIG_FILE), then from the
environment, e.g. DATABASE_DSN, CACHE_BACKEND, MEDIA_BACKEND.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			loaded, err := config.LoadConfig()
			if err != nil {
				return err
			}
			cfg = loaded
			logs.Init(cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newGroupCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logs.LogJSON("FATAL", "Command failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}
