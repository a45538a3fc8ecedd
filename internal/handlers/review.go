package handlers

import (
	"net/http"

	"github.com/Kartik1014/Rentit/internal/services"
	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateReview(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	var req services.SubmitReviewInput

	if !h.bind(ctx, &req) {
		return
	}

	review, err := h.services.Reviews.Submit(ctx.Request.Context(), principal, req)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Review submitted successfully",
		"review":  review,
	})
}

func (h *Handler) ListPropertyReviews(ctx *gin.Context) {
	propertyID, ok := h.id(ctx, "property_id")

	if !ok {
		return
	}

	page, ok := h.page(ctx)

	if !ok {
		return
	}

	reviews, err := h.services.Reviews.ListForProperty(ctx.Request.Context(), propertyID, page)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, reviews)
}

func (h *Handler) UpdateReview(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	id, ok := h.id(ctx, "id")

	if !ok {
		return
	}

	var req services.UpdateReviewInput

	if !h.bind(ctx, &req) {
		return
	}

	review, err := h.services.Reviews.Update(ctx.Request.Context(), principal, id, req)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Review updated successfully",
		"review":  review,
	})
}

func (h *Handler) DeleteReview(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	id, ok := h.id(ctx, "id")

	if !ok {
		return
	}

	if err := h.services.Reviews.Delete(ctx.Request.Context(), principal, id); err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
