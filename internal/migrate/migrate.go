// Package migrate creates and updates the schema from the gorm models.
package migrate

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/follow"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/group"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/logs"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/post"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/user"
)

// Models lists every table, parents first.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&group.Group{},
		&post.Post{},
		&post.Comment{},
		&follow.Follow{},
	}
}

func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logs.LogJSON("INFO", "Schema migrated", map[string]interface{}{
		"tables": len(Models()),
	})
	return nil
}
