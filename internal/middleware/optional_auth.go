package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/auth"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/logs"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/user"
)

// OptionalAuthMiddleware loads the user behind the session cookie or a
// Bearer token into "user_id" and "user". Anonymous requests pass through.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			c.Next()
			return
		}

		userID, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.Next()
			return
		}

		u, err := user.FindByID(userID)
		if err != nil {
			if !errors.Is(err, user.ErrNotFound) {
				logs.LogJSON("ERROR", "Error loading session user", map[string]interface{}{
					"error":  err.Error(),
					"route":  c.FullPath(),
					"userID": userID,
				})
			}
			c.Next()
			return
		}

		c.Set("user_id", u.ID)
		c.Set("user", u)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie(auth.CookieName); err == nil {
		return cookie
	}
	return ""
}
