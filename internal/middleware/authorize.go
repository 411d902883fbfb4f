package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jhs/backend/internal/models"
)

func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// Optional runs mw only when enabled is true.
func Optional(enabled bool, mw ...gin.HandlerFunc) gin.HandlersChain {
	if !enabled {
		return nil
	}
	return mw
}
