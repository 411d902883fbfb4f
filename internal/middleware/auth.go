package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jhs/backend/internal/config"
	"jhs/backend/internal/models"
	"jhs/backend/internal/security"
	"jhs/backend/internal/service"
)

const (
	ctxClaims = "access_claims"
	ctxUser   = "current_user"
)

// Authorizer resolves validated access claims into a live user.
type Authorizer interface {
	Authorize(ctx context.Context, claims *security.AccessClaims) (models.User, error)
	Touch(ctx context.Context, sessionID, ip, userAgent string)
}

func Auth(cfg *config.AppConfig, authz Authorizer, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenStr) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := security.ParseAccessToken(strings.TrimSpace(tokenStr), cfg.Security.JWTAccessSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := authz.Authorize(c.Request.Context(), claims)
		if err != nil {
			if !errors.Is(err, service.ErrInvalidCredentials) {
				Log(c, log).Error().Err(err).Msg("authorize request failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		authz.Touch(c.Request.Context(), claims.SessionID, c.ClientIP(), c.GetHeader("User-Agent"))

		c.Set(ctxClaims, claims)
		c.Set(ctxUser, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by Auth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ctxUser)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

// CurrentClaims returns the access claims stored by Auth.
func CurrentClaims(c *gin.Context) (*security.AccessClaims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*security.AccessClaims)
	return claims, ok
}
