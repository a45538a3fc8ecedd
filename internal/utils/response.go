package utils

import (
	"errors"
	"net/http"

	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/Kartik1014/Rentit/internal/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError writes {"error": message} with the status for err's kind.
// Internal errors are logged and answered with a generic message.
func RespondError(ctx *gin.Context, logger *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	if kind == apperr.KindInternal {
		Logger(ctx, logger).Error("Request failed",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(err),
		)
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	message := err.Error()
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	ctx.AbortWithStatusJSON(status, gin.H{"error": message})
}

// BindJSON binds the request body and answers 400 with a readable message
// on failure. It reports whether the handler should continue.
func BindJSON(ctx *gin.Context, logger *zap.Logger, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		Logger(ctx, logger).Debug("Failed to bind JSON", zap.Error(err))
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validation.Message(err)})
		return false
	}
	return true
}
