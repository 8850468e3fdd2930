package middleware

import (
	"people-graphql-api/internal/auth"
	"people-graphql-api/internal/logger"
	"people-graphql-api/pkg/utils"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware attaches the identity from a valid bearer token to the request
// context. Requests without a usable token continue anonymously; resolvers
// decide what requires authentication.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.Next()
			return
		}

		claims, err := utils.ValidateToken(strings.TrimSpace(parts[1]), secret)
		if err != nil {
			logger.WithRequestID(GetRequestID(c)).Debug("Ignoring invalid bearer token",
				zap.String("event", "auth_token_rejected"),
				zap.Error(err),
			)
			c.Next()
			return
		}

		identity := auth.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}
		c.Set("userID", identity.UserID)
		c.Set("role", identity.Role)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))

		c.Next()
	}
}
