package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/policy"
	"github.com/Kartik1014/Rentit/internal/repository"
	"github.com/Kartik1014/Rentit/internal/types"
	"github.com/Kartik1014/Rentit/internal/validation"
	"go.uber.org/zap"
)

type SubmitReviewInput struct {
	PropertyID uint   `json:"property_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment    string `json:"comment" binding:"max=2000"`
}

type UpdateReviewInput struct {
	Rating  *int    `json:"rating" binding:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment" binding:"omitempty,max=2000"`
}

type ReviewService struct {
	store    repository.Store
	validate *validation.Validator
	logger   *zap.Logger
}

func NewReviewService(store repository.Store, v *validation.Validator, logger *zap.Logger) *ReviewService {
	return &ReviewService{store: store, validate: v, logger: logger}
}

func (s *ReviewService) Submit(ctx context.Context, p policy.Principal, in SubmitReviewInput) (types.ReviewResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		return types.ReviewResponse{}, err
	}

	if _, err := s.store.Properties().FindByID(ctx, in.PropertyID); err != nil {
		return types.ReviewResponse{}, lookup(err, "Property not found")
	}

	rented, err := s.store.Bookings().HasApproved(ctx, in.PropertyID, p.ID)
	if err != nil {
		return types.ReviewResponse{}, internal(err)
	}
	if !rented {
		return types.ReviewResponse{}, apperr.Unauthorized("You can only review properties you have rented")
	}

	review := &models.Review{
		PropertyID: in.PropertyID,
		TenantID:   p.ID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
	}

	if err := s.store.Reviews().Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return types.ReviewResponse{}, apperr.Conflict("You have already reviewed this property")
		}
		return types.ReviewResponse{}, internal(err)
	}

	return s.load(ctx, review.ID)
}

func (s *ReviewService) load(ctx context.Context, id uint) (types.ReviewResponse, error) {
	review, err := s.store.Reviews().FindByID(ctx, id)
	if err != nil {
		return types.ReviewResponse{}, lookup(err, "Review not found")
	}
	return types.NewReviewResponse(review), nil
}

// Update only overwrites fields that were sent with a non-empty value.
func (s *ReviewService) Update(ctx context.Context, p policy.Principal, id uint, in UpdateReviewInput) (types.ReviewResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		return types.ReviewResponse{}, err
	}

	review, err := s.store.Reviews().FindByID(ctx, id)
	if err != nil {
		return types.ReviewResponse{}, lookup(err, "Review not found")
	}

	if err := policy.Authorize(p, policy.ActionManage, policy.ReviewResource(review)); err != nil {
		return types.ReviewResponse{}, err
	}

	if in.Rating != nil {
		review.Rating = *in.Rating
	}
	if in.Comment != nil {
		if comment := strings.TrimSpace(*in.Comment); comment != "" {
			review.Comment = comment
		}
	}

	if err := s.store.Reviews().Save(ctx, review); err != nil {
		return types.ReviewResponse{}, lookup(err, "Review not found")
	}

	return s.load(ctx, id)
}

func (s *ReviewService) Delete(ctx context.Context, p policy.Principal, id uint) error {
	review, err := s.store.Reviews().FindByID(ctx, id)
	if err != nil {
		return lookup(err, "Review not found")
	}

	if err := policy.Authorize(p, policy.ActionManage, policy.ReviewResource(review)); err != nil {
		return err
	}

	if err := s.store.Reviews().Delete(ctx, id); err != nil {
		return lookup(err, "Review not found")
	}
	return nil
}

func (s *ReviewService) ListForProperty(ctx context.Context, propertyID uint, page types.PageRequest) (types.PropertyReviews, error) {
	page = page.Normalize()

	reviews, total, err := s.store.Reviews().ListByProperty(ctx, propertyID, page)
	if err != nil {
		return types.PropertyReviews{}, internal(err)
	}

	average, count, err := s.store.Reviews().RatingSummary(ctx, propertyID)
	if err != nil {
		return types.PropertyReviews{}, internal(err)
	}

	items := make([]types.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, types.NewReviewResponse(&reviews[i]))
	}

	return types.PropertyReviews{
		Page:          types.NewPage(items, page, total),
		AverageRating: roundRating(average),
		TotalReviews:  count,
	}, nil
}

func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
