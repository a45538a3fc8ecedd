package middleware

import (
	"net/http"

	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/policy"
	"github.com/Kartik1014/Rentit/internal/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireRoles lets the request through when the authenticated principal has
// one of roles. It must run after AuthMiddleware.
func RequireRoles(logger *zap.Logger, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(roles) == 0 {
			c.Next()
			return
		}

		value, exists := c.Get(types.ContextUserKey)
		if !exists {
			logger.Warn("RequireRoles: no principal in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		principal, ok := value.(policy.Principal)
		if !ok {
			logger.Error("RequireRoles: unexpected principal type in context")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		logger.Warn("RequireRoles: insufficient role",
			zap.Uint("user_id", principal.ID),
			zap.String("role", string(principal.Role)),
		)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
	}
}
