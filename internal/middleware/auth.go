package middleware

import (
	"net/http"
	"strings"

	"github.com/Kartik1014/Rentit/internal/auth"
	"github.com/Kartik1014/Rentit/internal/policy"
	"github.com/Kartik1014/Rentit/internal/repository"
	"github.com/Kartik1014/Rentit/internal/types"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the access token and loads the user so that role
// changes and deletions take effect before the token expires. Browsers cannot
// set headers on websocket upgrades, so an access_token query parameter is
// accepted as well.
func AuthMiddleware(tokens *auth.TokenManager, users repository.UserRepository) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := ctx.Query("access_token")

		if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)

			if len(parts) != 2 || parts[0] != "Bearer" {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
				return
			}

			tokenString = parts[1]
		}

		if tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		claims, err := tokens.VerifyAccessToken(tokenString)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := users.FindByID(ctx.Request.Context(), claims.UserID)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ctx.Set(types.ContextUserKey, policy.Principal{
			ID:   user.ID,
			Role: user.Role,
		})
		ctx.Next()
	}
}
