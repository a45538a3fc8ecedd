package handlers

import (
	"net/http"

	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/services"
	"github.com/gin-gonic/gin"
)

type UpdateStatusRequest struct {
	Status models.AvailabilityStatus `json:"status" binding:"required,oneof=DRAFT AVAILABLE RENTED"`
}

func (h *Handler) CreateProperty(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	var req services.PropertyInput

	if !h.bind(ctx, &req) {
		return
	}

	property, err := h.services.Properties.Create(ctx.Request.Context(), principal, req)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":  "Property created successfully",
		"property": property,
	})
}

func (h *Handler) ListProperties(ctx *gin.Context) {
	page, ok := h.page(ctx)

	if !ok {
		return
	}

	properties, err := h.services.Properties.List(ctx.Request.Context(), page)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, properties)
}

func (h *Handler) GetProperty(ctx *gin.Context) {
	id, ok := h.id(ctx, "id")

	if !ok {
		return
	}

	property, err := h.services.Properties.Get(ctx.Request.Context(), id)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"property": property})
}

func (h *Handler) UpdateProperty(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	id, ok := h.id(ctx, "id")

	if !ok {
		return
	}

	var req services.PropertyInput

	if !h.bind(ctx, &req) {
		return
	}

	property, err := h.services.Properties.Update(ctx.Request.Context(), principal, id, req)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Property updated successfully",
		"property": property,
	})
}

func (h *Handler) DeleteProperty(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	id, ok := h.id(ctx, "id")

	if !ok {
		return
	}

	if err := h.services.Properties.Delete(ctx.Request.Context(), principal, id); err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Property deleted successfully"})
}

func (h *Handler) ListOwnerProperties(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	ownerID, ok := h.id(ctx, "owner_id")

	if !ok {
		return
	}

	page, ok := h.page(ctx)

	if !ok {
		return
	}

	properties, err := h.services.Properties.ListByOwner(ctx.Request.Context(), principal, ownerID, page)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, properties)
}

func (h *Handler) UpdatePropertyStatus(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	id, ok := h.id(ctx, "id")

	if !ok {
		return
	}

	var req UpdateStatusRequest

	if !h.bind(ctx, &req) {
		return
	}

	property, err := h.services.Properties.SetStatus(ctx.Request.Context(), principal, id, req.Status)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Property status updated successfully",
		"property": property,
	})
}
