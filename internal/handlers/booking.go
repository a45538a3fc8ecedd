package handlers

import (
	"context"
	"net/http"

	"github.com/Kartik1014/Rentit/internal/policy"
	"github.com/Kartik1014/Rentit/internal/services"
	"github.com/Kartik1014/Rentit/internal/types"
	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateBooking(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	var req services.CreateBookingInput

	if !h.bind(ctx, &req) {
		return
	}

	booking, err := h.services.Bookings.Create(ctx.Request.Context(), principal, req)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Booking request created successfully",
		"booking": booking,
	})
}

func (h *Handler) GetBooking(ctx *gin.Context) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	id, ok := h.id(ctx, "id")

	if !ok {
		return
	}

	booking, err := h.services.Bookings.Get(ctx.Request.Context(), principal, id)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"booking": booking})
}

type bookingTransition func(ctx context.Context, p policy.Principal, id uint) (types.BookingResponse, error)

func (h *Handler) transitionBooking(ctx *gin.Context, transition bookingTransition, message string) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	id, ok := h.id(ctx, "id")

	if !ok {
		return
	}

	booking, err := transition(ctx.Request.Context(), principal, id)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
		"booking": booking,
	})
}

func (h *Handler) ApproveBooking(ctx *gin.Context) {
	h.transitionBooking(ctx, h.services.Bookings.Approve, "Booking approved successfully")
}

func (h *Handler) RejectBooking(ctx *gin.Context) {
	h.transitionBooking(ctx, h.services.Bookings.Reject, "Booking rejected successfully")
}

func (h *Handler) CancelBooking(ctx *gin.Context) {
	h.transitionBooking(ctx, h.services.Bookings.Cancel, "Booking cancelled successfully")
}

type bookingList func(ctx context.Context, p policy.Principal, subjectID uint, page types.PageRequest) (types.Page[types.BookingResponse], error)

func (h *Handler) listBookings(ctx *gin.Context, param string, list bookingList) {
	principal, ok := h.principal(ctx)

	if !ok {
		return
	}

	subjectID, ok := h.id(ctx, param)

	if !ok {
		return
	}

	page, ok := h.page(ctx)

	if !ok {
		return
	}

	bookings, err := list(ctx.Request.Context(), principal, subjectID, page)

	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, bookings)
}

func (h *Handler) ListTenantBookings(ctx *gin.Context) {
	h.listBookings(ctx, "tenant_id", h.services.Bookings.ListByTenant)
}

func (h *Handler) ListOwnerBookings(ctx *gin.Context) {
	h.listBookings(ctx, "owner_id", h.services.Bookings.ListByOwner)
}
