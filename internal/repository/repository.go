// Package repository declares the persistence contracts used by the services.
// Implementations live in repository/postgres (gorm) and repository/memory.
package repository

import (
	"context"
	"errors"

	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/types"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Store interface {
	Users() UserRepository
	Properties() PropertyRepository
	Bookings() BookingRepository
	Reviews() ReviewRepository

	// WithinTransaction runs fn against a Store bound to one transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByResetToken(ctx context.Context, token string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, page types.PageRequest) ([]models.User, int64, error)
	CountByRole(ctx context.Context) (map[models.Role]int64, error)
}

type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// PropertyFilter fields are AND-combined. Zero values do not filter.
type PropertyFilter struct {
	City           string
	MinPrice       *float64
	MaxPrice       *float64
	Type           models.PropertyType
	MinBedrooms    *int
	OwnerID        uint
	UnverifiedOnly bool
	Bounds         *Bounds
}

var PropertySortFields = []string{"created_at", "rent_amount", "views", "bedrooms"}

type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	FindByID(ctx context.Context, id uint) (*models.Property, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Property, error)
	// Update overwrites every mutable column and replaces the image rows.
	Update(ctx context.Context, property *models.Property) error
	// SetAvailability skips soft-deleted rows and returns ErrNotFound for them.
	SetAvailability(ctx context.Context, id uint, status models.AvailabilityStatus) error
	// SetAvailabilityUnscoped also updates soft-deleted rows.
	SetAvailabilityUnscoped(ctx context.Context, id uint, status models.AvailabilityStatus) error
	SetVerified(ctx context.Context, id uint, verified bool) error
	IncrementViews(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, filter PropertyFilter, page types.PageRequest) ([]models.Property, int64, error)
	CountByAvailability(ctx context.Context) (map[models.AvailabilityStatus]int64, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id uint, status models.BookingStatus) error
	ExistsActive(ctx context.Context, propertyID, tenantID uint) (bool, error)
	HasApproved(ctx context.Context, propertyID, tenantID uint) (bool, error)
	ListByTenant(ctx context.Context, tenantID uint, page types.PageRequest) ([]models.Booking, int64, error)
	ListByOwner(ctx context.Context, ownerID uint, page types.PageRequest) ([]models.Booking, int64, error)
	ApprovedForProperty(ctx context.Context, propertyID uint) (int64, error)
	CountByStatus(ctx context.Context) (map[models.BookingStatus]int64, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id uint) (*models.Review, error)
	Save(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error
	ListByProperty(ctx context.Context, propertyID uint, page types.PageRequest) ([]models.Review, int64, error)
	// RatingSummary returns the mean rating (0 when there are no reviews) and the count.
	RatingSummary(ctx context.Context, propertyID uint) (float64, int64, error)
	Count(ctx context.Context) (int64, error)
}
