package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/Kartik1014/Rentit/internal/events"
	"github.com/Kartik1014/Rentit/internal/metrics"
	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/policy"
	"github.com/Kartik1014/Rentit/internal/repository"
	"github.com/Kartik1014/Rentit/internal/types"
	"github.com/Kartik1014/Rentit/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateBookingInput struct {
	PropertyID  uint   `json:"property_id" binding:"required"`
	CheckInDate string `json:"check_in_date" binding:"required,datetime=2006-01-02"`
	Notes       string `json:"notes" binding:"max=1000"`
}

const publishTimeout = 5 * time.Second

type BookingService struct {
	store     repository.Store
	validate  *validation.Validator
	publisher events.Publisher
	now       func() time.Time
	logger    *zap.Logger
}

func NewBookingService(store repository.Store, v *validation.Validator, publisher events.Publisher, now func() time.Time, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:     store,
		validate:  v,
		publisher: publisher,
		now:       now,
		logger:    logger,
	}
}

func (s *BookingService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *BookingService) Create(ctx context.Context, p policy.Principal, in CreateBookingInput) (types.BookingResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		return types.BookingResponse{}, err
	}

	checkIn, err := time.Parse(types.DateLayout, in.CheckInDate)
	if err != nil {
		return types.BookingResponse{}, apperr.Validation("check_in_date must be a date in 2006-01-02 format")
	}
	if checkIn.Before(s.today()) {
		return types.BookingResponse{}, apperr.Validation("Check-in date must be today or in the future")
	}

	booking := &models.Booking{
		PropertyID:  in.PropertyID,
		TenantID:    p.ID,
		Status:      models.BookingPending,
		CheckInDate: checkIn,
		Notes:       strings.TrimSpace(in.Notes),
	}

	err = s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		property, err := tx.Properties().FindByIDForUpdate(ctx, in.PropertyID)
		if err != nil {
			return lookup(err, "Property not found")
		}

		if property.AvailabilityStatus != models.AvailabilityAvailable {
			return apperr.Conflict("Property is not available for booking")
		}

		if property.OwnerID == p.ID {
			return apperr.Conflict("You cannot book your own property")
		}

		active, err := tx.Bookings().ExistsActive(ctx, property.ID, p.ID)
		if err != nil {
			return internal(err)
		}
		if active {
			return apperr.Conflict("You already have an active booking for this property")
		}

		booking.OwnerID = property.OwnerID

		if err := tx.Bookings().Create(ctx, booking); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.Conflict("You already have an active booking for this property")
			}
			return internal(err)
		}
		return nil
	})
	if err != nil {
		return types.BookingResponse{}, err
	}

	return s.committed(ctx, p, booking.ID, "", models.BookingPending)
}

func (s *BookingService) Approve(ctx context.Context, p policy.Principal, id uint) (types.BookingResponse, error) {
	return s.transition(ctx, p, id, models.BookingApproved, policy.ActionDecide,
		func(tx repository.Store, b *models.Booking) error {
			if err := tx.Properties().SetAvailability(ctx, b.PropertyID, models.AvailabilityRented); err != nil {
				return lookup(err, "Property not found")
			}
			return nil
		})
}

func (s *BookingService) Reject(ctx context.Context, p policy.Principal, id uint) (types.BookingResponse, error) {
	return s.transition(ctx, p, id, models.BookingRejected, policy.ActionDecide, nil)
}

// Cancel releases the property when the booking had been approved, even if
// the listing has since been soft-deleted.
func (s *BookingService) Cancel(ctx context.Context, p policy.Principal, id uint) (types.BookingResponse, error) {
	return s.transition(ctx, p, id, models.BookingCancelled, policy.ActionCancel,
		func(tx repository.Store, b *models.Booking) error {
			if b.Status != models.BookingApproved {
				return nil
			}
			if err := tx.Properties().SetAvailabilityUnscoped(ctx, b.PropertyID, models.AvailabilityAvailable); err != nil {
				return lookup(err, "Property not found")
			}
			return nil
		})
}

type sideEffect func(tx repository.Store, b *models.Booking) error

func (s *BookingService) transition(ctx context.Context, p policy.Principal, id uint, next models.BookingStatus, action policy.Action, effect sideEffect) (types.BookingResponse, error) {
	var previous models.BookingStatus

	err := s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		booking, err := tx.Bookings().FindByIDForUpdate(ctx, id)
		if err != nil {
			return lookup(err, "Booking not found")
		}

		if err := policy.Authorize(p, action, policy.BookingResource(booking)); err != nil {
			return err
		}

		if !booking.Status.CanTransitionTo(next) {
			return apperr.Conflict(transitionConflict(booking.Status, next))
		}

		if err := tx.Bookings().UpdateStatus(ctx, booking.ID, next); err != nil {
			return lookup(err, "Booking not found")
		}

		if effect != nil {
			if err := effect(tx, booking); err != nil {
				return err
			}
		}

		previous = booking.Status
		return nil
	})
	if err != nil {
		return types.BookingResponse{}, err
	}

	return s.committed(ctx, p, id, previous, next)
}

func transitionConflict(current, next models.BookingStatus) string {
	switch next {
	case models.BookingApproved:
		return "Only pending bookings can be approved"
	case models.BookingRejected:
		return "Only pending bookings can be rejected"
	case models.BookingCancelled:
		return fmt.Sprintf("Booking is already %s and cannot be cancelled", strings.ToLower(string(current)))
	}
	return fmt.Sprintf("Cannot move booking from %s to %s", current, next)
}

// committed runs after a successful transaction: it records the transition,
// notifies the sinks and reloads the booking for the response.
func (s *BookingService) committed(ctx context.Context, p policy.Principal, id uint, previous, next models.BookingStatus) (types.BookingResponse, error) {
	metrics.BookingTransitions.WithLabelValues(string(next)).Inc()

	booking, err := s.store.Bookings().FindByID(ctx, id)
	if err != nil {
		return types.BookingResponse{}, lookup(err, "Booking not found")
	}

	s.publish(ctx, p, booking, previous)

	return types.NewBookingResponse(booking), nil
}

func (s *BookingService) publish(ctx context.Context, p policy.Principal, b *models.Booking, previous models.BookingStatus) {
	event := events.BookingEvent{
		ID:             uuid.NewString(),
		Type:           events.TypeBookingUpdated,
		BookingID:      b.ID,
		PropertyID:     b.PropertyID,
		PropertyTitle:  b.Property.Title,
		TenantID:       b.TenantID,
		OwnerID:        b.OwnerID,
		ActorID:        p.ID,
		Status:         b.Status,
		PreviousStatus: previous,
		CheckInDate:    b.CheckInDate.Format(types.DateLayout),
		OccurredAt:     s.now().UTC(),
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, event); err != nil {
		metrics.EventPublishFailures.Inc()
		s.logger.Warn("Failed to publish booking event",
			zap.Uint("booking_id", b.ID),
			zap.String("status", string(b.Status)),
			zap.Error(err),
		)
	}
}

func (s *BookingService) Get(ctx context.Context, p policy.Principal, id uint) (types.BookingResponse, error) {
	booking, err := s.store.Bookings().FindByID(ctx, id)
	if err != nil {
		return types.BookingResponse{}, lookup(err, "Booking not found")
	}

	if err := policy.Authorize(p, policy.ActionView, policy.BookingResource(booking)); err != nil {
		return types.BookingResponse{}, err
	}

	return types.NewBookingResponse(booking), nil
}

func (s *BookingService) ListByTenant(ctx context.Context, p policy.Principal, tenantID uint, page types.PageRequest) (types.Page[types.BookingResponse], error) {
	if err := policy.Authorize(p, policy.ActionList, policy.AccountResource(tenantID)); err != nil {
		return types.Page[types.BookingResponse]{}, err
	}
	return s.list(ctx, page, func(page types.PageRequest) ([]models.Booking, int64, error) {
		return s.store.Bookings().ListByTenant(ctx, tenantID, page)
	})
}

func (s *BookingService) ListByOwner(ctx context.Context, p policy.Principal, ownerID uint, page types.PageRequest) (types.Page[types.BookingResponse], error) {
	if err := policy.Authorize(p, policy.ActionList, policy.AccountResource(ownerID)); err != nil {
		return types.Page[types.BookingResponse]{}, err
	}
	return s.list(ctx, page, func(page types.PageRequest) ([]models.Booking, int64, error) {
		return s.store.Bookings().ListByOwner(ctx, ownerID, page)
	})
}

func (s *BookingService) list(ctx context.Context, page types.PageRequest, fetch func(types.PageRequest) ([]models.Booking, int64, error)) (types.Page[types.BookingResponse], error) {
	page = page.Normalize()

	bookings, total, err := fetch(page)
	if err != nil {
		return types.Page[types.BookingResponse]{}, internal(err)
	}

	items := make([]types.BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, types.NewBookingResponse(&bookings[i]))
	}

	return types.NewPage(items, page, total), nil
}
