package services

import (
	"context"
	"math"
	"strings"

	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/Kartik1014/Rentit/internal/metrics"
	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/policy"
	"github.com/Kartik1014/Rentit/internal/repository"
	"github.com/Kartik1014/Rentit/internal/types"
	"github.com/Kartik1014/Rentit/internal/validation"
	"go.uber.org/zap"
)

type ImageInput struct {
	URL       string `json:"url" binding:"required,notblank"`
	IsPrimary bool   `json:"is_primary"`
}

type PropertyInput struct {
	Title        string              `json:"title" binding:"required,notblank,max=200"`
	Description  string              `json:"description" binding:"required,notblank"`
	PropertyType models.PropertyType `json:"property_type" binding:"required,oneof=APARTMENT HOUSE VILLA STUDIO ROOM"`
	RentAmount   *float64            `json:"rent_amount" binding:"required,gte=0"`
	Deposit      *float64            `json:"deposit" binding:"required,gte=0"`
	Address      string              `json:"address" binding:"required,notblank"`
	City         string              `json:"city" binding:"required,notblank"`
	State        string              `json:"state" binding:"required,notblank"`
	Pincode      string              `json:"pincode" binding:"required,notblank"`
	Latitude     *float64            `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude    *float64            `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Bedrooms     int                 `json:"bedrooms" binding:"required,gte=1"`
	Bathrooms    int                 `json:"bathrooms" binding:"required,gte=1"`
	AreaSqft     *float64            `json:"area_sqft" binding:"omitempty,gt=0"`
	Amenities    []string            `json:"amenities" binding:"omitempty,dive,notblank"`
	Images       []ImageInput        `json:"images" binding:"omitempty,dive"`
}

type SearchInput struct {
	City         string
	MinPrice     *float64
	MaxPrice     *float64
	PropertyType models.PropertyType
	Bedrooms     *int
}

type NearbyInput struct {
	Latitude  float64 `json:"lat" binding:"gte=-90,lte=90"`
	Longitude float64 `json:"lng" binding:"gte=-180,lte=180"`
	RadiusKm  float64 `json:"radius" binding:"gt=0,lte=500"`
}

const kmPerDegreeLat = 111.32

type PropertyService struct {
	store    repository.Store
	validate *validation.Validator
	logger   *zap.Logger
}

func NewPropertyService(store repository.Store, v *validation.Validator, logger *zap.Logger) *PropertyService {
	return &PropertyService{store: store, validate: v, logger: logger}
}

func (in PropertyInput) apply(p *models.Property) error {
	p.Title = strings.TrimSpace(in.Title)
	p.Description = strings.TrimSpace(in.Description)
	p.PropertyType = in.PropertyType
	p.RentAmount = *in.RentAmount
	p.Deposit = *in.Deposit
	p.Address = strings.TrimSpace(in.Address)
	p.City = strings.TrimSpace(in.City)
	p.State = strings.TrimSpace(in.State)
	p.Pincode = strings.TrimSpace(in.Pincode)
	p.Latitude = in.Latitude
	p.Longitude = in.Longitude
	p.Bedrooms = in.Bedrooms
	p.Bathrooms = in.Bathrooms
	p.AreaSqft = in.AreaSqft

	if in.Images != nil {
		p.Images = make([]models.PropertyImage, 0, len(in.Images))
		for _, img := range in.Images {
			p.Images = append(p.Images, models.PropertyImage{URL: strings.TrimSpace(img.URL), IsPrimary: img.IsPrimary})
		}
	} else {
		p.Images = nil
	}

	return p.SetAmenities(in.Amenities)
}

func (s *PropertyService) Create(ctx context.Context, p policy.Principal, in PropertyInput) (types.PropertyResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		return types.PropertyResponse{}, err
	}

	property := &models.Property{
		OwnerID:            p.ID,
		AvailabilityStatus: models.AvailabilityDraft,
	}
	if err := in.apply(property); err != nil {
		return types.PropertyResponse{}, internal(err)
	}
	if property.Images == nil {
		property.Images = []models.PropertyImage{}
	}

	if err := s.store.Properties().Create(ctx, property); err != nil {
		return types.PropertyResponse{}, internal(err)
	}

	return s.load(ctx, property.ID)
}

func (s *PropertyService) load(ctx context.Context, id uint) (types.PropertyResponse, error) {
	property, err := s.store.Properties().FindByID(ctx, id)
	if err != nil {
		return types.PropertyResponse{}, lookup(err, "Property not found")
	}
	return types.NewPropertyResponse(property), nil
}

// Get counts a view for every successful fetch.
func (s *PropertyService) Get(ctx context.Context, id uint) (types.PropertyResponse, error) {
	if err := s.store.Properties().IncrementViews(ctx, id); err != nil {
		return types.PropertyResponse{}, lookup(err, "Property not found")
	}
	metrics.PropertyViews.Inc()

	return s.load(ctx, id)
}

func (s *PropertyService) List(ctx context.Context, page types.PageRequest) (types.Page[types.PropertyResponse], error) {
	return s.search(ctx, repository.PropertyFilter{}, page)
}

func (s *PropertyService) search(ctx context.Context, filter repository.PropertyFilter, page types.PageRequest) (types.Page[types.PropertyResponse], error) {
	page = page.Normalize()

	properties, total, err := s.store.Properties().Search(ctx, filter, page)
	if err != nil {
		return types.Page[types.PropertyResponse]{}, internal(err)
	}

	items := make([]types.PropertyResponse, 0, len(properties))
	for i := range properties {
		items = append(items, types.NewPropertyResponse(&properties[i]))
	}

	return types.NewPage(items, page, total), nil
}

func (s *PropertyService) Update(ctx context.Context, p policy.Principal, id uint, in PropertyInput) (types.PropertyResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		return types.PropertyResponse{}, err
	}

	property, err := s.store.Properties().FindByID(ctx, id)
	if err != nil {
		return types.PropertyResponse{}, lookup(err, "Property not found")
	}

	if err := policy.Authorize(p, policy.ActionManage, policy.PropertyResource(property)); err != nil {
		return types.PropertyResponse{}, err
	}

	if err := in.apply(property); err != nil {
		return types.PropertyResponse{}, internal(err)
	}

	if err := s.store.Properties().Update(ctx, property); err != nil {
		return types.PropertyResponse{}, lookup(err, "Property not found")
	}

	return s.load(ctx, id)
}

func (s *PropertyService) Delete(ctx context.Context, p policy.Principal, id uint) error {
	property, err := s.store.Properties().FindByID(ctx, id)
	if err != nil {
		return lookup(err, "Property not found")
	}

	if err := policy.Authorize(p, policy.ActionManage, policy.PropertyResource(property)); err != nil {
		return err
	}

	if err := s.store.Properties().Delete(ctx, id); err != nil {
		return lookup(err, "Property not found")
	}

	s.logger.Info("Property deleted", zap.Uint("property_id", id), zap.Uint("actor_id", p.ID))
	return nil
}

// SetStatus overrides availability directly. Moving a property with an
// approved booking away from RENTED is allowed but logged.
func (s *PropertyService) SetStatus(ctx context.Context, p policy.Principal, id uint, status models.AvailabilityStatus) (types.PropertyResponse, error) {
	if !status.Valid() {
		return types.PropertyResponse{}, apperr.Validation("availability_status must be one of [DRAFT AVAILABLE RENTED]")
	}

	property, err := s.store.Properties().FindByID(ctx, id)
	if err != nil {
		return types.PropertyResponse{}, lookup(err, "Property not found")
	}

	if err := policy.Authorize(p, policy.ActionManage, policy.PropertyResource(property)); err != nil {
		return types.PropertyResponse{}, err
	}

	if status != models.AvailabilityRented {
		approved, err := s.store.Bookings().ApprovedForProperty(ctx, id)
		if err != nil {
			return types.PropertyResponse{}, internal(err)
		}
		if approved > 0 {
			s.logger.Warn("Availability changed while an approved booking exists",
				zap.Uint("property_id", id),
				zap.String("status", string(status)),
				zap.Int64("approved_bookings", approved),
			)
		}
	}

	if err := s.store.Properties().SetAvailability(ctx, id, status); err != nil {
		return types.PropertyResponse{}, lookup(err, "Property not found")
	}

	return s.load(ctx, id)
}

func (s *PropertyService) Search(ctx context.Context, in SearchInput, page types.PageRequest) (types.Page[types.PropertyResponse], error) {
	if in.PropertyType != "" && !in.PropertyType.Valid() {
		return types.Page[types.PropertyResponse]{}, apperr.Validation("property_type must be one of [APARTMENT HOUSE VILLA STUDIO ROOM]")
	}

	filter := repository.PropertyFilter{
		City:        in.City,
		MinPrice:    in.MinPrice,
		MaxPrice:    in.MaxPrice,
		Type:        in.PropertyType,
		MinBedrooms: in.Bedrooms,
	}

	return s.search(ctx, filter, page)
}

// SearchNearby filters by a lat/lng box that encloses a circle of the given
// radius. Corners of the box reach slightly past the radius.
func (s *PropertyService) SearchNearby(ctx context.Context, in NearbyInput, page types.PageRequest) (types.Page[types.PropertyResponse], error) {
	if err := s.validate.Struct(in); err != nil {
		return types.Page[types.PropertyResponse]{}, err
	}

	return s.search(ctx, repository.PropertyFilter{Bounds: boundingBox(in)}, page)
}

func boundingBox(in NearbyInput) *repository.Bounds {
	dLat := in.RadiusKm / kmPerDegreeLat

	dLng := 180.0
	if cos := math.Cos(in.Latitude * math.Pi / 180); cos > 1e-6 {
		dLng = math.Min(180, in.RadiusKm/(kmPerDegreeLat*cos))
	}

	return &repository.Bounds{
		MinLat: math.Max(-90, in.Latitude-dLat),
		MaxLat: math.Min(90, in.Latitude+dLat),
		MinLng: math.Max(-180, in.Longitude-dLng),
		MaxLng: math.Min(180, in.Longitude+dLng),
	}
}

func (s *PropertyService) ListByOwner(ctx context.Context, p policy.Principal, ownerID uint, page types.PageRequest) (types.Page[types.PropertyResponse], error) {
	if err := policy.Authorize(p, policy.ActionList, policy.AccountResource(ownerID)); err != nil {
		return types.Page[types.PropertyResponse]{}, err
	}

	return s.search(ctx, repository.PropertyFilter{OwnerID: ownerID}, page)
}
