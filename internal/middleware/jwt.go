package middleware

import (
	"net/http"
	"strings"

	"quiz-system/internal/constants"
	"quiz-system/internal/dto"
	"quiz-system/internal/models"
	"quiz-system/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// JWTAuth validates the bearer token and attaches the authenticated
// actor to the request context.
func JWTAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			dto.JsonError(c, http.StatusUnauthorized, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			dto.JsonError(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateAccessToken(parts[1], jwtSecret)
		if err != nil {
			dto.JsonError(c, http.StatusUnauthorized, "Failed to validate token")
			c.Abort()
			return
		}

		role := claims.Role
		if role == "" {
			role = constants.RoleStudent
		}

		c.Set(actorKey, models.Actor{ID: claims.UserID, Role: role})
		c.Next()
	}
}

func GetActor(c *gin.Context) models.Actor {
	value, ok := c.Get(actorKey)
	if !ok {
		return models.Actor{}
	}
	actor, _ := value.(models.Actor)
	return actor
}

// AdminOnly rejects requests from non-admin actors. Runs after JWTAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetActor(c).Role != constants.RoleAdmin {
			dto.JsonError(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
