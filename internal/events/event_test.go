package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	events []BookingEvent
	err    error
}

func (r *recorder) Publish(_ context.Context, e BookingEvent) error {
	r.events = append(r.events, e)
	return r.err
}

func sampleEvent() BookingEvent {
	return BookingEvent{
		ID:             "evt-1",
		Type:           TypeBookingUpdated,
		BookingID:      7,
		PropertyID:     3,
		PropertyTitle:  "Sunny loft",
		TenantID:       2,
		OwnerID:        1,
		ActorID:        1,
		Status:         models.BookingApproved,
		PreviousStatus: models.BookingPending,
		CheckInDate:    "2030-01-15",
		OccurredAt:     time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMultiDeliversToAllAndJoinsErrors(t *testing.T) {
	failing := &recorder{err: errors.New("sink down")}
	healthy := &recorder{}

	err := Multi{failing, healthy}.Publish(context.Background(), sampleEvent())

	assert.ErrorContains(t, err, "sink down")
	assert.Len(t, failing.events, 1)
	assert.Len(t, healthy.events, 1)
}

func TestMultiEmpty(t *testing.T) {
	assert.NoError(t, Multi{}.Publish(context.Background(), sampleEvent()))
	assert.NoError(t, Nop{}.Publish(context.Background(), sampleEvent()))
}
