// Package server wires handlers, middleware and backing stores into a gin
// engine and runs it.
package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/auth"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/cache"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/config"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/database"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/follow"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/logs"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/metrics"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/middleware"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/post"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/storage"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/web"
)

// NewRouter builds the engine. limiter guards the login and signup forms;
// stopping it is up to the caller.
func NewRouter(cfg *config.Config, store cache.Store, media storage.MediaStore, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.SetHTMLTemplate(web.Templates())

	r.Use(
		gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
			web.ServerError(c, fmt.Errorf("panic: %v", recovered))
		}),
		logs.RequestLogger(),
		metrics.Middleware(),
		middleware.OptionalAuthMiddleware(),
	)

	r.GET("/healthz", healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if local, ok := media.(*storage.LocalStore); ok && strings.HasPrefix(local.BaseURL, "/") {
		r.Static(strings.TrimSuffix(local.BaseURL, "/"), local.Dir)
	}

	// Authentification
	authGroup := r.Group("/auth")
	authGroup.GET("/login/", auth.LoginPage)
	authGroup.POST("/login/", limiter.Handler(), auth.Login)
	authGroup.GET("/signup/", auth.SignupPage)
	authGroup.POST("/signup/", limiter.Handler(), auth.Signup)
	authGroup.GET("/logout/", auth.Logout)

	h := &post.Handler{
		Cache:     store,
		CacheTTL:  time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		Media:     media,
		MaxUpload: cfg.Media.MaxUpload,
	}

	r.GET("/", h.Index)
	r.GET("/group/:slug/", post.GroupPosts)
	r.GET("/:username/", post.Profile)
	r.GET("/:username/:post_id/", h.PostView)

	protected := r.Group("/", middleware.LoginRequired())
	{
		protected.GET("/new/", h.NewPost)
		protected.POST("/new/", h.NewPost)
		protected.GET("/follow/", post.FollowIndex)

		protected.GET("/:username/follow/", follow.ProfileFollow)
		protected.GET("/:username/unfollow/", follow.ProfileUnfollow)

		protected.GET("/:username/:post_id/edit/", h.PostEdit)
		protected.POST("/:username/:post_id/edit/", h.PostEdit)
		protected.GET("/:username/:post_id/comment/", h.AddComment)
		protected.POST("/:username/:post_id/comment/", h.AddComment)
		protected.POST("/:username/:post_id/delete/", h.DeletePost)
	}

	r.NoRoute(web.NotFound)
	return r
}

func healthz(c *gin.Context) {
	sqlDB, err := database.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		logs.LogJSON("ERROR", "Health check failed", map[string]interface{}{
			"error": err.Error(),
			"route": c.FullPath(),
		})
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
