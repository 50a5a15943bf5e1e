package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/auth"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/web"
)

// LoginRequired sends anonymous visitors to the login page with the current
// path as next. It expects OptionalAuthMiddleware to have run.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if web.CurrentUser(c) != nil {
			c.Next()
			return
		}

		next := c.Request.URL.EscapedPath()
		if c.Request.URL.RawQuery != "" {
			next += "?" + c.Request.URL.RawQuery
		}
		c.Redirect(http.StatusFound, auth.LoginURL(next))
		c.Abort()
	}
}
