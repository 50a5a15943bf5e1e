package post

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/follow"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/paginator"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/user"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/web"
)

// Profile GET /:username/
func Profile(c *gin.Context) {
	author, err := user.FindByUsername(c.Param("username"))
	if err != nil {
		notFoundOr500(c, err, user.ErrNotFound)
		return
	}

	page, err := paginator.Paginate[Post](ByAuthor(author.ID), paginator.ProfilePageSize, c.Query("page"), "Author", "Group")
	if err != nil {
		web.ServerError(c, err)
		return
	}

	data := gin.H{
		"title":       author.DisplayName(),
		"post_author": author,
		"page":        page,
		"count":       page.Count,
	}

	if viewer := web.CurrentUser(c); viewer != nil {
		following, err := follow.IsFollowing(viewer.ID, author.ID)
		if err != nil {
			web.ServerError(c, err)
			return
		}
		followers, err := follow.CountFollowers(author.ID)
		if err != nil {
			web.ServerError(c, err)
			return
		}
		followed, err := follow.CountFollowing(author.ID)
		if err != nil {
			web.ServerError(c, err)
			return
		}
		data["following"] = following
		data["followers_count"] = followers
		data["following_count"] = followed
	}

	web.Render(c, http.StatusOK, "profile.html", data)
}
