// Package events fans booking transitions out to notification sinks.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/Kartik1014/Rentit/internal/models"
)

const TypeBookingUpdated = "booking_updated"

type BookingEvent struct {
	ID             string               `json:"id"`
	Type           string               `json:"type"`
	BookingID      uint                 `json:"booking_id"`
	PropertyID     uint                 `json:"property_id"`
	PropertyTitle  string               `json:"property_title"`
	TenantID       uint                 `json:"tenant_id"`
	OwnerID        uint                 `json:"owner_id"`
	ActorID        uint                 `json:"actor_id"`
	Status         models.BookingStatus `json:"status"`
	PreviousStatus models.BookingStatus `json:"previous_status,omitempty"`
	CheckInDate    string               `json:"check_in_date"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
}

// Multi delivers to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event BookingEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Publish(context.Context, BookingEvent) error { return nil }
