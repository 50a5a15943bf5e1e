package post

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/follow"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/group"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/paginator"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/web"
)

// GroupPosts GET /group/:slug/
func GroupPosts(c *gin.Context) {
	g, err := group.FindBySlug(c.Param("slug"))
	if err != nil {
		notFoundOr500(c, err, group.ErrNotFound)
		return
	}

	page, err := paginator.Paginate[Post](ByGroup(g.ID), paginator.FeedPageSize, c.Query("page"), "Author", "Group")
	if err != nil {
		web.ServerError(c, err)
		return
	}

	web.Render(c, http.StatusOK, "group.html", gin.H{
		"title": g.Title,
		"group": g,
		"page":  page,
	})
}

// FollowIndex GET /follow/ lists posts of the authors the viewer follows.
func FollowIndex(c *gin.Context) {
	viewer := web.CurrentUser(c)

	authorIDs, err := follow.FollowedAuthorIDs(viewer.ID)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	page, err := paginator.Paginate[Post](ByAuthors(authorIDs), paginator.FeedPageSize, c.Query("page"), "Author", "Group")
	if err != nil {
		web.ServerError(c, err)
		return
	}

	web.Render(c, http.StatusOK, "follow.html", gin.H{
		"title": "Following",
		"page":  page,
		"count": len(authorIDs),
	})
}
