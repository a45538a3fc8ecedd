package handlers

import (
	"context"
	"net/http"

	"github.com/Kartik1014/Rentit/internal/events"
	"github.com/Kartik1014/Rentit/internal/policy"
	"github.com/Kartik1014/Rentit/internal/services"
	"github.com/Kartik1014/Rentit/internal/types"
	"github.com/Kartik1014/Rentit/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	services *services.Services
	hub      *events.Hub
	pinger   Pinger
	origins  []string
	logger   *zap.Logger
}

func New(svc *services.Services, hub *events.Hub, pinger Pinger, origins []string, logger *zap.Logger) *Handler {
	return &Handler{
		services: svc,
		hub:      hub,
		pinger:   pinger,
		origins:  origins,
		logger:   logger,
	}
}

func (h *Handler) fail(ctx *gin.Context, err error) {
	utils.RespondError(ctx, h.logger, err)
}

func (h *Handler) bind(ctx *gin.Context, obj interface{}) bool {
	return utils.BindJSON(ctx, h.logger, obj)
}

func (h *Handler) principal(ctx *gin.Context) (policy.Principal, bool) {
	principal, err := utils.GetPrincipal(ctx)

	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return policy.Principal{}, false
	}

	return principal, true
}

func (h *Handler) id(ctx *gin.Context, name string) (uint, bool) {
	id, err := utils.GetIDParam(ctx, name)

	if err != nil {
		h.fail(ctx, err)
		return 0, false
	}

	return id, true
}

func (h *Handler) page(ctx *gin.Context) (types.PageRequest, bool) {
	req, err := utils.GetPageRequest(ctx)

	if err != nil {
		h.fail(ctx, err)
		return types.PageRequest{}, false
	}

	return req, true
}
