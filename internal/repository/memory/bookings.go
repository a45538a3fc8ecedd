package memory

import (
	"context"
	"sort"

	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/repository"
	"github.com/Kartik1014/Rentit/internal/types"
)

type bookingRepository struct {
	s *Store
}

func isActive(status models.BookingStatus) bool {
	for _, s := range models.ActiveBookingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Create enforces the same rule as the idx_active_booking partial index.
func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	defer r.s.lock()()
	data := r.s.st.data

	if isActive(booking.Status) {
		for _, b := range data.bookings {
			if b.PropertyID == booking.PropertyID && b.TenantID == booking.TenantID && isActive(b.Status) {
				return repository.ErrDuplicate
			}
		}
	}

	now := r.s.st.now()
	booking.ID = data.next("bookings")
	booking.CreatedAt = now
	booking.UpdatedAt = now
	data.bookings[booking.ID] = bare(*booking)
	return nil
}

func bare(b models.Booking) models.Booking {
	b.Property, b.Tenant, b.Owner = models.Property{}, models.User{}, models.User{}
	return b
}

func (r *bookingRepository) hydrate(b models.Booking) models.Booking {
	data := r.s.st.data
	if p, ok := data.properties[b.PropertyID]; ok && !p.DeletedAt.Valid {
		b.Property = cloneProperty(p)
	}
	if u, ok := data.users[b.TenantID]; ok {
		b.Tenant = cloneUser(u)
	}
	if u, ok := data.users[b.OwnerID]; ok {
		b.Owner = cloneUser(u)
	}
	return b
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	defer r.s.lock()()
	b, ok := r.s.st.data.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.hydrate(b)
	return &out, nil
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Booking, error) {
	defer r.s.lock()()
	b, ok := r.s.st.data.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uint, status models.BookingStatus) error {
	defer r.s.lock()()
	b, ok := r.s.st.data.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = r.s.st.now()
	r.s.st.data.bookings[id] = b
	return nil
}

func (r *bookingRepository) ExistsActive(ctx context.Context, propertyID, tenantID uint) (bool, error) {
	return r.exists(propertyID, tenantID, isActive), nil
}

func (r *bookingRepository) HasApproved(ctx context.Context, propertyID, tenantID uint) (bool, error) {
	return r.exists(propertyID, tenantID, func(s models.BookingStatus) bool {
		return s == models.BookingApproved
	}), nil
}

func (r *bookingRepository) exists(propertyID, tenantID uint, match func(models.BookingStatus) bool) bool {
	defer r.s.lock()()
	for _, b := range r.s.st.data.bookings {
		if b.PropertyID == propertyID && b.TenantID == tenantID && match(b.Status) {
			return true
		}
	}
	return false
}

func (r *bookingRepository) ApprovedForProperty(ctx context.Context, propertyID uint) (int64, error) {
	defer r.s.lock()()
	var count int64
	for _, b := range r.s.st.data.bookings {
		if b.PropertyID == propertyID && b.Status == models.BookingApproved {
			count++
		}
	}
	return count, nil
}

func (r *bookingRepository) ListByTenant(ctx context.Context, tenantID uint, page types.PageRequest) ([]models.Booking, int64, error) {
	return r.list(func(b models.Booking) bool { return b.TenantID == tenantID }, page)
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID uint, page types.PageRequest) ([]models.Booking, int64, error) {
	return r.list(func(b models.Booking) bool { return b.OwnerID == ownerID }, page)
}

func (r *bookingRepository) list(match func(models.Booking) bool, page types.PageRequest) ([]models.Booking, int64, error) {
	defer r.s.lock()()

	bookings := []models.Booking{}
	for _, b := range r.s.st.data.bookings {
		if match(b) {
			bookings = append(bookings, r.hydrate(b))
		}
	}

	sort.Slice(bookings, func(i, j int) bool {
		return ordered(compareTime(bookings[i].CreatedAt, bookings[j].CreatedAt), bookings[i].ID, bookings[j].ID, true)
	})

	return paginate(bookings, page), int64(len(bookings)), nil
}

func (r *bookingRepository) CountByStatus(ctx context.Context) (map[models.BookingStatus]int64, error) {
	defer r.s.lock()()
	counts := map[models.BookingStatus]int64{}
	for _, b := range r.s.st.data.bookings {
		counts[b.Status]++
	}
	return counts, nil
}
