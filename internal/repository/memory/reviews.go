package memory

import (
	"context"
	"sort"

	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/repository"
	"github.com/Kartik1014/Rentit/internal/types"
)

type reviewRepository struct {
	s *Store
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	defer r.s.lock()()
	data := r.s.st.data

	for _, existing := range data.reviews {
		if existing.PropertyID == review.PropertyID && existing.TenantID == review.TenantID {
			return repository.ErrDuplicate
		}
	}

	now := r.s.st.now()
	review.ID = data.next("reviews")
	review.CreatedAt = now
	review.UpdatedAt = now
	data.reviews[review.ID] = bareReview(*review)
	return nil
}

func bareReview(rv models.Review) models.Review {
	rv.Property, rv.Tenant = models.Property{}, models.User{}
	return rv
}

func (r *reviewRepository) hydrate(rv models.Review) models.Review {
	if u, ok := r.s.st.data.users[rv.TenantID]; ok {
		rv.Tenant = cloneUser(u)
	}
	return rv
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*models.Review, error) {
	defer r.s.lock()()
	rv, ok := r.s.st.data.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.hydrate(rv)
	return &out, nil
}

func (r *reviewRepository) Save(ctx context.Context, review *models.Review) error {
	defer r.s.lock()()
	existing, ok := r.s.st.data.reviews[review.ID]
	if !ok {
		return repository.ErrNotFound
	}
	review.CreatedAt = existing.CreatedAt
	review.UpdatedAt = r.s.st.now()
	r.s.st.data.reviews[review.ID] = bareReview(*review)
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.st.data.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.st.data.reviews, id)
	return nil
}

func (r *reviewRepository) ListByProperty(ctx context.Context, propertyID uint, page types.PageRequest) ([]models.Review, int64, error) {
	defer r.s.lock()()

	reviews := []models.Review{}
	for _, rv := range r.s.st.data.reviews {
		if rv.PropertyID == propertyID {
			reviews = append(reviews, r.hydrate(rv))
		}
	}

	sort.Slice(reviews, func(i, j int) bool {
		return ordered(compareTime(reviews[i].CreatedAt, reviews[j].CreatedAt), reviews[i].ID, reviews[j].ID, true)
	})

	return paginate(reviews, page), int64(len(reviews)), nil
}

func (r *reviewRepository) RatingSummary(ctx context.Context, propertyID uint) (float64, int64, error) {
	defer r.s.lock()()

	var sum, count int64
	for _, rv := range r.s.st.data.reviews {
		if rv.PropertyID == propertyID {
			sum += int64(rv.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (r *reviewRepository) Count(ctx context.Context) (int64, error) {
	defer r.s.lock()()
	return int64(len(r.s.st.data.reviews)), nil
}
