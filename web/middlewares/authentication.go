package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"timeclock.app/timeclock/core"
	"timeclock.app/timeclock/security"
	"timeclock.app/timeclock/web/common"
)

const userKey = "user"

// Authentication checks for a valid Bearer token and stores the
// verified identity on the request context.
func Authentication(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("Access denied. No token provided."))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("Access denied. No token provided."))
			return
		}

		claims, err := security.ParseIdentityToken(parts[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, common.NewErrorResponse("Invalid token."))
			return
		}

		c.Set(userKey, claims.UserRef())
		c.Next()
	}
}

// RequireAdmin gates administrative routes. It must run after
// Authentication.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("User not authenticated"))
			return
		}
		if user.Role != core.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, common.NewErrorResponse("Access denied. Admins only."))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity set by Authentication.
func CurrentUser(c *gin.Context) (core.UserRef, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return core.UserRef{}, false
	}
	user, ok := v.(core.UserRef)
	return user, ok
}
