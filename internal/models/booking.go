package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingApproved  BookingStatus = "APPROVED"
	BookingRejected  BookingStatus = "REJECTED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// ActiveBookingStatuses are the statuses that hold a (property, tenant) slot.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingApproved}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:  {BookingApproved, BookingRejected, BookingCancelled},
	BookingApproved: {BookingCancelled},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) Terminal() bool {
	return len(bookingTransitions[s]) == 0
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingRejected, BookingCancelled:
		return true
	}
	return false
}

// Booking.OwnerID is copied from the property when the booking is created and
// is not updated if the property changes hands later.
type Booking struct {
	BaseModel

	PropertyID  uint          `gorm:"not null;index"`
	TenantID    uint          `gorm:"not null;index"`
	OwnerID     uint          `gorm:"not null;index"`
	Status      BookingStatus `gorm:"type:varchar(16);not null;index:idx_booking_status"`
	CheckInDate time.Time     `gorm:"type:date;not null"`
	Notes       string        `gorm:"size:1000"`

	// Relationships
	Property Property `gorm:"foreignKey:PropertyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Tenant   User     `gorm:"foreignKey:TenantID"`
	Owner    User     `gorm:"foreignKey:OwnerID"`
}
