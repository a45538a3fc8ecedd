package postgres

import (
	"context"
	"strings"

	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/repository"
	"github.com/Kartik1014/Rentit/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var propertyMutableColumns = []string{
	"title", "description", "property_type", "rent_amount", "deposit",
	"address", "city", "state", "pincode", "latitude", "longitude",
	"bedrooms", "bathrooms", "area_sqft", "amenities",
}

type propertyRepository struct {
	db *gorm.DB
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	return translate(r.db.WithContext(ctx).Omit("Owner").Create(property).Error)
}

func (r *propertyRepository) FindByID(ctx context.Context, id uint) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Owner").
		First(&property, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &property, nil
}

func (r *propertyRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Property, error) {
	var property models.Property
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&property, id).Error; err != nil {
		return nil, translate(err)
	}
	return &property, nil
}

func (r *propertyRepository) Update(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(property).
			Select(propertyMutableColumns).
			Omit(clause.Associations).
			Updates(property)
		if err := affected(result); err != nil {
			return err
		}

		if property.Images == nil {
			return nil
		}

		if err := tx.Where("property_id = ?", property.ID).Delete(&models.PropertyImage{}).Error; err != nil {
			return err
		}

		if len(property.Images) == 0 {
			return nil
		}

		for i := range property.Images {
			property.Images[i].ID = 0
			property.Images[i].PropertyID = property.ID
		}

		return tx.Create(&property.Images).Error
	})
}

func (r *propertyRepository) SetAvailability(ctx context.Context, id uint, status models.AvailabilityStatus) error {
	return affected(r.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("id = ?", id).
		Update("availability_status", status))
}

func (r *propertyRepository) SetAvailabilityUnscoped(ctx context.Context, id uint, status models.AvailabilityStatus) error {
	return affected(r.db.WithContext(ctx).
		Unscoped().
		Model(&models.Property{}).
		Where("id = ?", id).
		Update("availability_status", status))
}

func (r *propertyRepository) SetVerified(ctx context.Context, id uint, verified bool) error {
	return affected(r.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("id = ?", id).
		Update("is_verified", verified))
}

// IncrementViews leaves updated_at untouched.
func (r *propertyRepository) IncrementViews(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)))
}

func (r *propertyRepository) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Property{}, id))
}

func (r *propertyRepository) Search(ctx context.Context, filter repository.PropertyFilter, page types.PageRequest) ([]models.Property, int64, error) {
	var (
		properties []models.Property
		total      int64
	)

	query := applyPropertyFilter(r.db.WithContext(ctx).Model(&models.Property{}), filter).Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Images").
		Order(page.OrderClause(repository.PropertySortFields...)).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&properties).Error

	return properties, total, err
}

func applyPropertyFilter(query *gorm.DB, filter repository.PropertyFilter) *gorm.DB {
	if city := strings.TrimSpace(filter.City); city != "" {
		query = query.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(city)+"%")
	}
	if filter.MinPrice != nil {
		query = query.Where("rent_amount >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("rent_amount <= ?", *filter.MaxPrice)
	}
	if filter.Type != "" {
		query = query.Where("property_type = ?", filter.Type)
	}
	if filter.MinBedrooms != nil {
		query = query.Where("bedrooms >= ?", *filter.MinBedrooms)
	}
	if filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.UnverifiedOnly {
		query = query.Where("is_verified = ?", false)
	}
	if b := filter.Bounds; b != nil {
		query = query.
			Where("latitude BETWEEN ? AND ?", b.MinLat, b.MaxLat).
			Where("longitude BETWEEN ? AND ?", b.MinLng, b.MaxLng)
	}
	return query
}

func (r *propertyRepository) CountByAvailability(ctx context.Context) (map[models.AvailabilityStatus]int64, error) {
	rows, err := countBy(ctx, r.db, &models.Property{}, "availability_status")
	if err != nil {
		return nil, err
	}

	counts := make(map[models.AvailabilityStatus]int64, len(rows))
	for _, row := range rows {
		counts[models.AvailabilityStatus(row.Name)] = row.Count
	}
	return counts, nil
}
