package handlers

import (
	"net/http"

	"github.com/Kartik1014/Rentit/internal/services"
	"github.com/gin-gonic/gin"
)

func (h *Handler) Register(ctx *gin.Context) {
	var req services.RegisterInput

	if !h.bind(ctx, &req) {
		return
	}

	resp, err := h.services.Auth.Register(ctx.Request.Context(), req)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

func (h *Handler) Login(ctx *gin.Context) {
	var req services.LoginInput

	if !h.bind(ctx, &req) {
		return
	}

	resp, err := h.services.Auth.Login(ctx.Request.Context(), req)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

func (h *Handler) Refresh(ctx *gin.Context) {
	var req services.RefreshInput

	if !h.bind(ctx, &req) {
		return
	}

	resp, err := h.services.Auth.Refresh(ctx.Request.Context(), req)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

func (h *Handler) Logout(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	if err := h.services.Auth.Logout(ctx.Request.Context(), principal); err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (h *Handler) Profile(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	user, err := h.services.Auth.Profile(ctx.Request.Context(), principal)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

// RequestPasswordReset answers with the token itself since no mail
// transport is configured.
func (h *Handler) RequestPasswordReset(ctx *gin.Context) {
	var req services.ResetRequestInput

	if !h.bind(ctx, &req) {
		return
	}

	token, err := h.services.Auth.RequestPasswordReset(ctx.Request.Context(), req)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":     "Password reset token generated",
		"reset_token": token,
	})
}

func (h *Handler) ResetPassword(ctx *gin.Context) {
	var req services.ResetPasswordInput

	if !h.bind(ctx, &req) {
		return
	}

	if err := h.services.Auth.ResetPassword(ctx.Request.Context(), req); err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}
