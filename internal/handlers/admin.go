package handlers

import (
	"net/http"

	"github.com/Kartik1014/Rentit/internal/services"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListUsers(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	page, ok := h.page(ctx)

	if !ok {
		return
	}

	users, err := h.services.Admin.ListUsers(ctx.Request.Context(), principal, page)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, users)
}

func (h *Handler) DeleteUser(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	id, ok := h.id(ctx, "id")

	if !ok {
		return
	}

	if err := h.services.Admin.DeleteUser(ctx.Request.Context(), principal, id); err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *Handler) ChangeUserRole(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	id, ok := h.id(ctx, "id")

	if !ok {
		return
	}

	var req services.ChangeRoleInput

	if !h.bind(ctx, &req) {
		return
	}

	user, err := h.services.Admin.ChangeRole(ctx.Request.Context(), principal, id, req.Role)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User role updated successfully",
		"user":    user,
	})
}

func (h *Handler) ListPendingProperties(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	page, ok := h.page(ctx)

	if !ok {
		return
	}

	properties, err := h.services.Admin.ListPendingProperties(ctx.Request.Context(), principal, page)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, properties)
}

func (h *Handler) VerifyProperty(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	id, ok := h.id(ctx, "id")

	if !ok {
		return
	}

	property, err := h.services.Admin.VerifyProperty(ctx.Request.Context(), principal, id)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Property verified successfully",
		"property": property,
	})
}

func (h *Handler) Analytics(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	analytics, err := h.services.Admin.Analytics(ctx.Request.Context(), principal)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, analytics)
}
