package models

type Review struct {
	BaseModel

	PropertyID uint   `gorm:"not null;uniqueIndex:idx_review_property_tenant"`
	TenantID   uint   `gorm:"not null;uniqueIndex:idx_review_property_tenant;index"`
	Rating     int    `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    string `gorm:"type:text"`

	// Relationships
	Property Property `gorm:"foreignKey:PropertyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Tenant   User     `gorm:"foreignKey:TenantID"`
}
