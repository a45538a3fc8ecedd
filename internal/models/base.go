package models

import "time"

// BaseModel is gorm.Model without soft delete. Only properties are soft-deleted.
type BaseModel struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}
