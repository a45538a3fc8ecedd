package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PropertyType string

const (
	PropertyTypeApartment PropertyType = "APARTMENT"
	PropertyTypeHouse     PropertyType = "HOUSE"
	PropertyTypeVilla     PropertyType = "VILLA"
	PropertyTypeStudio    PropertyType = "STUDIO"
	PropertyTypeRoom      PropertyType = "ROOM"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeVilla, PropertyTypeStudio, PropertyTypeRoom:
		return true
	}
	return false
}

type AvailabilityStatus string

const (
	AvailabilityDraft     AvailabilityStatus = "DRAFT"
	AvailabilityAvailable AvailabilityStatus = "AVAILABLE"
	AvailabilityRented    AvailabilityStatus = "RENTED"
)

func (s AvailabilityStatus) Valid() bool {
	switch s {
	case AvailabilityDraft, AvailabilityAvailable, AvailabilityRented:
		return true
	}
	return false
}

// Property is soft-deleted through gorm.Model.DeletedAt; every default-scoped
// query skips deleted rows.
type Property struct {
	gorm.Model

	OwnerID            uint               `gorm:"not null;index"`
	Title              string             `gorm:"not null"`
	Description        string             `gorm:"type:text;not null"`
	PropertyType       PropertyType       `gorm:"type:varchar(16);not null"`
	RentAmount         float64            `gorm:"not null;index"`
	Deposit            float64            `gorm:"not null"`
	Address            string             `gorm:"not null"`
	City               string             `gorm:"not null;index:idx_city_status"`
	State              string             `gorm:"not null"`
	Pincode            string             `gorm:"not null"`
	Latitude           *float64
	Longitude          *float64
	Bedrooms           int                `gorm:"not null;default:1"`
	Bathrooms          int                `gorm:"not null;default:1"`
	AreaSqft           *float64
	Amenities          datatypes.JSON     `gorm:"type:jsonb"` // Array of strings
	AvailabilityStatus AvailabilityStatus `gorm:"type:varchar(16);not null;default:DRAFT;index:idx_city_status"`
	IsVerified         bool               `gorm:"not null;default:false"`
	Views              int64              `gorm:"not null;default:0"`

	// Relationships
	Owner  User            `gorm:"foreignKey:OwnerID"`
	Images []PropertyImage `gorm:"foreignKey:PropertyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type PropertyImage struct {
	BaseModel

	PropertyID uint   `gorm:"not null;index"`
	URL        string `gorm:"not null"`
	IsPrimary  bool   `gorm:"not null;default:false"`
}

// AmenityList decodes the JSON amenity column. A malformed column reads as empty.
func (p *Property) AmenityList() []string {
	amenities := []string{}
	if len(p.Amenities) == 0 {
		return amenities
	}
	if err := json.Unmarshal(p.Amenities, &amenities); err != nil {
		return []string{}
	}
	return amenities
}

func (p *Property) SetAmenities(amenities []string) error {
	if amenities == nil {
		amenities = []string{}
	}
	raw, err := json.Marshal(amenities)
	if err != nil {
		return err
	}
	p.Amenities = datatypes.JSON(raw)
	return nil
}
