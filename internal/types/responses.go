package types

import (
	"time"

	"github.com/Kartik1014/Rentit/internal/models"
)

type UserResponse struct {
	ID        uint        `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	Phone     string      `json:"phone,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

type AuthResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type ImageResponse struct {
	ID        uint   `json:"id"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
}

type PropertyResponse struct {
	ID                 uint                      `json:"id"`
	OwnerID            uint                      `json:"owner_id"`
	Owner              *UserResponse             `json:"owner,omitempty"`
	Title              string                    `json:"title"`
	Description        string                    `json:"description"`
	PropertyType       models.PropertyType       `json:"property_type"`
	RentAmount         float64                   `json:"rent_amount"`
	Deposit            float64                   `json:"deposit"`
	Address            string                    `json:"address"`
	City               string                    `json:"city"`
	State              string                    `json:"state"`
	Pincode            string                    `json:"pincode"`
	Latitude           *float64                  `json:"latitude,omitempty"`
	Longitude          *float64                  `json:"longitude,omitempty"`
	Bedrooms           int                       `json:"bedrooms"`
	Bathrooms          int                       `json:"bathrooms"`
	AreaSqft           *float64                  `json:"area_sqft,omitempty"`
	Amenities          []string                  `json:"amenities"`
	Images             []ImageResponse           `json:"images"`
	AvailabilityStatus models.AvailabilityStatus `json:"availability_status"`
	IsVerified         bool                      `json:"is_verified"`
	Views              int64                     `json:"views"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

func NewPropertyResponse(p *models.Property) PropertyResponse {
	images := make([]ImageResponse, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ImageResponse{ID: img.ID, URL: img.URL, IsPrimary: img.IsPrimary})
	}

	resp := PropertyResponse{
		ID:                 p.ID,
		OwnerID:            p.OwnerID,
		Title:              p.Title,
		Description:        p.Description,
		PropertyType:       p.PropertyType,
		RentAmount:         p.RentAmount,
		Deposit:            p.Deposit,
		Address:            p.Address,
		City:               p.City,
		State:              p.State,
		Pincode:            p.Pincode,
		Latitude:           p.Latitude,
		Longitude:          p.Longitude,
		Bedrooms:           p.Bedrooms,
		Bathrooms:          p.Bathrooms,
		AreaSqft:           p.AreaSqft,
		Amenities:          p.AmenityList(),
		Images:             images,
		AvailabilityStatus: p.AvailabilityStatus,
		IsVerified:         p.IsVerified,
		Views:              p.Views,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}

	if p.Owner.ID != 0 {
		owner := NewUserResponse(&p.Owner)
		resp.Owner = &owner
	}

	return resp
}

type PropertySummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	City  string `json:"city"`
}

type BookingResponse struct {
	ID          uint                 `json:"id"`
	PropertyID  uint                 `json:"property_id"`
	Property    *PropertySummary     `json:"property,omitempty"`
	TenantID    uint                 `json:"tenant_id"`
	Tenant      *UserResponse        `json:"tenant,omitempty"`
	OwnerID     uint                 `json:"owner_id"`
	Owner       *UserResponse        `json:"owner,omitempty"`
	Status      models.BookingStatus `json:"booking_status"`
	CheckInDate string               `json:"check_in_date"`
	Notes       string               `json:"notes"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

const DateLayout = "2006-01-02"

func NewBookingResponse(b *models.Booking) BookingResponse {
	resp := BookingResponse{
		ID:          b.ID,
		PropertyID:  b.PropertyID,
		TenantID:    b.TenantID,
		OwnerID:     b.OwnerID,
		Status:      b.Status,
		CheckInDate: b.CheckInDate.Format(DateLayout),
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}

	if b.Property.ID != 0 {
		resp.Property = &PropertySummary{ID: b.Property.ID, Title: b.Property.Title, City: b.Property.City}
	}
	if b.Tenant.ID != 0 {
		tenant := NewUserResponse(&b.Tenant)
		resp.Tenant = &tenant
	}
	if b.Owner.ID != 0 {
		owner := NewUserResponse(&b.Owner)
		resp.Owner = &owner
	}

	return resp
}

type ReviewResponse struct {
	ID         uint          `json:"id"`
	PropertyID uint          `json:"property_id"`
	TenantID   uint          `json:"tenant_id"`
	Tenant     *UserResponse `json:"tenant,omitempty"`
	Rating     int           `json:"rating"`
	Comment    string        `json:"comment"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func NewReviewResponse(r *models.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:         r.ID,
		PropertyID: r.PropertyID,
		TenantID:   r.TenantID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.Tenant.ID != 0 {
		tenant := NewUserResponse(&r.Tenant)
		resp.Tenant = &tenant
	}
	return resp
}

// PropertyReviews is a page of reviews plus the property's rating aggregate.
type PropertyReviews struct {
	Page[ReviewResponse]
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
}

type ImageInfo struct {
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"mimetype"`
}

type Analytics struct {
	Users      UserStats     `json:"users"`
	Properties PropertyStats `json:"properties"`
	Bookings   BookingStats  `json:"bookings"`
	Reviews    ReviewStats   `json:"reviews"`
}

type UserStats struct {
	Total   int64 `json:"total"`
	Tenants int64 `json:"tenants"`
	Owners  int64 `json:"owners"`
	Admins  int64 `json:"admins"`
}

type PropertyStats struct {
	Total     int64 `json:"total"`
	Draft     int64 `json:"draft"`
	Available int64 `json:"available"`
	Rented    int64 `json:"rented"`
}

type BookingStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Cancelled int64 `json:"cancelled"`
}

type ReviewStats struct {
	Total int64 `json:"total"`
}
