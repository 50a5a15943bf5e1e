package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/database"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/group"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/logs"
)

const (
	titleFlag       = "title"
	slugFlag        = "slug"
	descriptionFlag = "description"
)

var groupCreateFlags = map[string]cobraflags.Flag{
	titleFlag: &cobraflags.StringFlag{
		Name:  titleFlag,
		Value: "",
		Usage: "Group title (required)",
	},
	slugFlag: &cobraflags.StringFlag{
		Name:  slugFlag,
		Value: "",
		Usage: "URL slug, /group/<slug>/ (required)",
	},
	descriptionFlag: &cobraflags.StringFlag{
		Name:  descriptionFlag,
		Value: "",
		Usage: "Free text shown on the group page",
	},
}

func newGroupCommand() *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Manage post groups",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		Long: `Create a group posts can be filed under.

Example:
  server group create --title "Cats" --slug cats --description "All about cats"`,
		RunE: groupCreateCommand,
	}
	cobraflags.RegisterMap(createCmd, groupCreateFlags)

	groupCmd.AddCommand(createCmd)
	return groupCmd
}

func groupCreateCommand(cmd *cobra.Command, _ []string) error {
	g := &group.Group{
		Title:       strings.TrimSpace(groupCreateFlags[titleFlag].GetString()),
		Slug:        strings.TrimSpace(groupCreateFlags[slugFlag].GetString()),
		Description: groupCreateFlags[descriptionFlag].GetString(),
	}
	if g.Title == "" || g.Slug == "" {
		return errors.New("--title and --slug are required")
	}

	if err := database.Connect(cfg.Database); err != nil {
		return err
	}
	defer database.Close()

	if err := group.Create(g); err != nil {
		return err
	}

	logs.LogJSON("INFO", "Group created", map[string]interface{}{
		"extra": fmt.Sprintf("slug : %s", g.Slug),
	})
	fmt.Fprintf(cmd.OutOrStdout(), "Created group %q at /group/%s/\n", g.Title, g.Slug)
	return nil
}
