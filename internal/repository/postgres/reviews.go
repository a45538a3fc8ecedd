package postgres

import (
	"context"
	"database/sql"

	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reviewRepository struct {
	db *gorm.DB
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error)
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Preload("Tenant").First(&review, id).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *reviewRepository) Save(ctx context.Context, review *models.Review) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(review).Error)
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Review{}, id))
}

func (r *reviewRepository) ListByProperty(ctx context.Context, propertyID uint, page types.PageRequest) ([]models.Review, int64, error) {
	var (
		reviews []models.Review
		total   int64
	)

	q := r.db.WithContext(ctx).Model(&models.Review{}).Where("property_id = ?", propertyID).Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.
		Preload("Tenant").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&reviews).Error

	return reviews, total, err
}

func (r *reviewRepository) RatingSummary(ctx context.Context, propertyID uint) (float64, int64, error) {
	var row struct {
		Average sql.NullFloat64
		Total   int64
	}

	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("AVG(rating) AS average, COUNT(*) AS total").
		Where("property_id = ?", propertyID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}

	return row.Average.Float64, row.Total, nil
}

func (r *reviewRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).Count(&count).Error
	return count, err
}
