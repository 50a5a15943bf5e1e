package follow

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/logs"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/metrics"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/user"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/web"
)

// ProfileFollow GET /:username/follow/
func ProfileFollow(c *gin.Context) {
	route := c.FullPath()
	viewer := web.CurrentUser(c)

	author, ok := loadAuthor(c)
	if !ok {
		return
	}

	if viewer.ID == author.ID {
		logs.LogJSON("WARN", "Impossible to follow yourself", map[string]interface{}{
			"route":  route,
			"userID": viewer.ID,
		})
		c.Redirect(http.StatusFound, "/follow/")
		return
	}

	created, err := Add(viewer.ID, author.ID)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	if created {
		metrics.FollowsCreated.Inc()
		logs.LogJSON("INFO", "Followed user", map[string]interface{}{
			"route":  route,
			"userID": viewer.ID,
			"extra":  fmt.Sprintf("authorID : %d", author.ID),
		})
	} else {
		logs.LogJSON("INFO", "Already followed", map[string]interface{}{
			"route":  route,
			"userID": viewer.ID,
			"extra":  fmt.Sprintf("authorID : %d", author.ID),
		})
	}
	c.Redirect(http.StatusFound, "/follow/")
}

// ProfileUnfollow GET /:username/unfollow/
func ProfileUnfollow(c *gin.Context) {
	route := c.FullPath()
	viewer := web.CurrentUser(c)

	author, ok := loadAuthor(c)
	if !ok {
		return
	}

	if err := Unfollow(viewer.ID, author.ID); err != nil {
		web.ServerError(c, err)
		return
	}

	logs.LogJSON("INFO", "User unfollow", map[string]interface{}{
		"route":  route,
		"userID": viewer.ID,
		"extra":  fmt.Sprintf("authorID : %d", author.ID),
	})
	c.Redirect(http.StatusFound, "/")
}

func loadAuthor(c *gin.Context) (*user.User, bool) {
	author, err := user.FindByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			web.NotFound(c)
		} else {
			web.ServerError(c, err)
		}
		return nil, false
	}
	return author, true
}
