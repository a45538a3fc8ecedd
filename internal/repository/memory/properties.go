package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/repository"
	"github.com/Kartik1014/Rentit/internal/types"
	"gorm.io/gorm"
)

type propertyRepository struct {
	s *Store
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	defer r.s.lock()()
	data := r.s.st.data

	now := r.s.st.now()
	property.ID = data.next("properties")
	property.CreatedAt = now
	property.UpdatedAt = now
	property.DeletedAt = gorm.DeletedAt{}
	r.assignImages(property, now)

	data.properties[property.ID] = cloneProperty(*property)
	return nil
}

func (r *propertyRepository) assignImages(property *models.Property, now time.Time) {
	for i := range property.Images {
		property.Images[i].ID = r.s.st.data.next("property_images")
		property.Images[i].PropertyID = property.ID
		property.Images[i].CreatedAt = now
		property.Images[i].UpdatedAt = now
	}
}

// live returns the row only when it exists and is not soft-deleted.
func (r *propertyRepository) live(id uint) (models.Property, bool) {
	p, ok := r.s.st.data.properties[id]
	if !ok || p.DeletedAt.Valid {
		return models.Property{}, false
	}
	return p, true
}

func (r *propertyRepository) FindByID(ctx context.Context, id uint) (*models.Property, error) {
	defer r.s.lock()()
	p, ok := r.live(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.withOwner(cloneProperty(p))
	return &out, nil
}

func (r *propertyRepository) withOwner(p models.Property) models.Property {
	if owner, ok := r.s.st.data.users[p.OwnerID]; ok {
		p.Owner = cloneUser(owner)
	}
	if p.Images == nil {
		p.Images = []models.PropertyImage{}
	}
	return p
}

func (r *propertyRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Property, error) {
	defer r.s.lock()()
	p, ok := r.live(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneProperty(p)
	return &out, nil
}

func (r *propertyRepository) Update(ctx context.Context, property *models.Property) error {
	defer r.s.lock()()
	current, ok := r.live(property.ID)
	if !ok {
		return repository.ErrNotFound
	}

	now := r.s.st.now()
	current.Title = property.Title
	current.Description = property.Description
	current.PropertyType = property.PropertyType
	current.RentAmount = property.RentAmount
	current.Deposit = property.Deposit
	current.Address = property.Address
	current.City = property.City
	current.State = property.State
	current.Pincode = property.Pincode
	current.Latitude = property.Latitude
	current.Longitude = property.Longitude
	current.Bedrooms = property.Bedrooms
	current.Bathrooms = property.Bathrooms
	current.AreaSqft = property.AreaSqft
	current.Amenities = property.Amenities
	current.UpdatedAt = now

	if property.Images != nil {
		r.assignImages(property, now)
		current.Images = property.Images
	}

	r.s.st.data.properties[current.ID] = cloneProperty(current)
	return nil
}

func (r *propertyRepository) SetAvailability(ctx context.Context, id uint, status models.AvailabilityStatus) error {
	defer r.s.lock()()
	p, ok := r.live(id)
	if !ok {
		return repository.ErrNotFound
	}
	p.AvailabilityStatus = status
	p.UpdatedAt = r.s.st.now()
	r.s.st.data.properties[id] = p
	return nil
}

func (r *propertyRepository) SetAvailabilityUnscoped(ctx context.Context, id uint, status models.AvailabilityStatus) error {
	defer r.s.lock()()
	p, ok := r.s.st.data.properties[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.AvailabilityStatus = status
	p.UpdatedAt = r.s.st.now()
	r.s.st.data.properties[id] = p
	return nil
}

func (r *propertyRepository) SetVerified(ctx context.Context, id uint, verified bool) error {
	defer r.s.lock()()
	p, ok := r.live(id)
	if !ok {
		return repository.ErrNotFound
	}
	p.IsVerified = verified
	p.UpdatedAt = r.s.st.now()
	r.s.st.data.properties[id] = p
	return nil
}

func (r *propertyRepository) IncrementViews(ctx context.Context, id uint) error {
	defer r.s.lock()()
	p, ok := r.live(id)
	if !ok {
		return repository.ErrNotFound
	}
	p.Views++
	r.s.st.data.properties[id] = p
	return nil
}

func (r *propertyRepository) Delete(ctx context.Context, id uint) error {
	defer r.s.lock()()
	p, ok := r.live(id)
	if !ok {
		return repository.ErrNotFound
	}
	p.DeletedAt = gorm.DeletedAt{Time: r.s.st.now(), Valid: true}
	r.s.st.data.properties[id] = p
	return nil
}

func (r *propertyRepository) Search(ctx context.Context, filter repository.PropertyFilter, page types.PageRequest) ([]models.Property, int64, error) {
	defer r.s.lock()()

	matches := []models.Property{}
	for _, p := range r.s.st.data.properties {
		if p.DeletedAt.Valid || !matchesFilter(p, filter) {
			continue
		}
		c := cloneProperty(p)
		if c.Images == nil {
			c.Images = []models.PropertyImage{}
		}
		matches = append(matches, c)
	}

	column := sortColumn(page, repository.PropertySortFields...)
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		var cmp int
		switch column {
		case "rent_amount":
			cmp = compareFloat(a.RentAmount, b.RentAmount)
		case "views":
			cmp = compareFloat(float64(a.Views), float64(b.Views))
		case "bedrooms":
			cmp = compareFloat(float64(a.Bedrooms), float64(b.Bedrooms))
		default:
			cmp = compareTime(a.CreatedAt, b.CreatedAt)
		}
		return ordered(cmp, a.ID, b.ID, page.Desc)
	})

	return paginate(matches, page), int64(len(matches)), nil
}

func matchesFilter(p models.Property, f repository.PropertyFilter) bool {
	if city := strings.TrimSpace(f.City); city != "" &&
		!strings.Contains(strings.ToLower(p.City), strings.ToLower(city)) {
		return false
	}
	if f.MinPrice != nil && p.RentAmount < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.RentAmount > *f.MaxPrice {
		return false
	}
	if f.Type != "" && p.PropertyType != f.Type {
		return false
	}
	if f.MinBedrooms != nil && p.Bedrooms < *f.MinBedrooms {
		return false
	}
	if f.OwnerID != 0 && p.OwnerID != f.OwnerID {
		return false
	}
	if f.UnverifiedOnly && p.IsVerified {
		return false
	}
	if b := f.Bounds; b != nil {
		if p.Latitude == nil || p.Longitude == nil {
			return false
		}
		if *p.Latitude < b.MinLat || *p.Latitude > b.MaxLat ||
			*p.Longitude < b.MinLng || *p.Longitude > b.MaxLng {
			return false
		}
	}
	return true
}

func (r *propertyRepository) CountByAvailability(ctx context.Context) (map[models.AvailabilityStatus]int64, error) {
	defer r.s.lock()()
	counts := map[models.AvailabilityStatus]int64{}
	for _, p := range r.s.st.data.properties {
		if p.DeletedAt.Valid {
			continue
		}
		counts[p.AvailabilityStatus]++
	}
	return counts, nil
}
