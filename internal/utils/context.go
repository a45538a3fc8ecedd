package utils

import (
	"errors"

	"github.com/Kartik1014/Rentit/internal/policy"
	"github.com/Kartik1014/Rentit/internal/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func GetPrincipal(ctx *gin.Context) (policy.Principal, error) {
	value, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return policy.Principal{}, errors.New("User not authenticated")
	}

	principal, ok := value.(policy.Principal)

	if !ok {
		return policy.Principal{}, errors.New("Invalid user type in context")
	}

	return principal, nil
}

// Logger returns the request-scoped logger set by LoggingMiddleware, or
// fallback when the request did not pass through it.
func Logger(ctx *gin.Context, fallback *zap.Logger) *zap.Logger {
	if value, exists := ctx.Get(types.ContextLoggerKey); exists {
		if logger, ok := value.(*zap.Logger); ok {
			return logger
		}
	}
	return fallback
}
