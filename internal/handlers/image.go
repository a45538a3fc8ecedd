package handlers

import (
	"fmt"
	"net/http"

	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ImageFormField = "images"

func (h *Handler) UploadImages(ctx *gin.Context) {
	form, err := ctx.MultipartForm()

	if err != nil {
		h.fail(ctx, apperr.Validation("Request must be multipart/form-data with an images field"))
		return
	}

	images, err := h.services.Images.Upload(ctx.Request.Context(), form.File[ImageFormField])

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Images uploaded successfully",
		"images":  images,
	})
}

func (h *Handler) GetImage(ctx *gin.Context) {
	filename := ctx.Param("filename")

	obj, err := h.services.Images.Fetch(ctx.Request.Context(), filename)

	if err != nil {
		h.fail(ctx, err)
		return
	}
	defer func() {
		if err := obj.Body.Close(); err != nil {
			h.logger.Warn("Failed to close image", zap.String("filename", filename), zap.Error(err))
		}
	}()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx.DataFromReader(http.StatusOK, obj.Size, contentType, obj.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", filename),
	})
}

func (h *Handler) DeleteImage(ctx *gin.Context) {
	if err := h.services.Images.Delete(ctx.Request.Context(), ctx.Param("filename")); err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}
