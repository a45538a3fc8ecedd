package postgres

import (
	"context"

	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type bookingRepository struct {
	db *gorm.DB
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(booking).Error)
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Property").
		Preload("Tenant").
		Preload("Owner").
		First(&booking, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&booking, id).Error; err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uint, status models.BookingStatus) error {
	return affected(r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status))
}

func (r *bookingRepository) ExistsActive(ctx context.Context, propertyID, tenantID uint) (bool, error) {
	return r.exists(ctx, propertyID, tenantID, models.ActiveBookingStatuses...)
}

func (r *bookingRepository) HasApproved(ctx context.Context, propertyID, tenantID uint) (bool, error) {
	return r.exists(ctx, propertyID, tenantID, models.BookingApproved)
}

func (r *bookingRepository) exists(ctx context.Context, propertyID, tenantID uint, statuses ...models.BookingStatus) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("property_id = ? AND tenant_id = ? AND status IN ?", propertyID, tenantID, statuses).
		Count(&count).Error
	return count > 0, err
}

func (r *bookingRepository) ApprovedForProperty(ctx context.Context, propertyID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("property_id = ? AND status = ?", propertyID, models.BookingApproved).
		Count(&count).Error
	return count, err
}

func (r *bookingRepository) ListByTenant(ctx context.Context, tenantID uint, page types.PageRequest) ([]models.Booking, int64, error) {
	return r.list(ctx, "tenant_id = ?", tenantID, page)
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID uint, page types.PageRequest) ([]models.Booking, int64, error) {
	return r.list(ctx, "owner_id = ?", ownerID, page)
}

func (r *bookingRepository) list(ctx context.Context, query string, arg uint, page types.PageRequest) ([]models.Booking, int64, error) {
	var (
		bookings []models.Booking
		total    int64
	)

	q := r.db.WithContext(ctx).Model(&models.Booking{}).Where(query, arg).Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.
		Preload("Property").
		Preload("Tenant").
		Preload("Owner").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&bookings).Error

	return bookings, total, err
}

func (r *bookingRepository) CountByStatus(ctx context.Context) (map[models.BookingStatus]int64, error) {
	rows, err := countBy(ctx, r.db, &models.Booking{}, "status")
	if err != nil {
		return nil, err
	}

	counts := make(map[models.BookingStatus]int64, len(rows))
	for _, row := range rows {
		counts[models.BookingStatus(row.Name)] = row.Count
	}
	return counts, nil
}
