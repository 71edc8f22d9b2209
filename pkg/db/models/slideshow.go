package models

import (
	"time"

	"github.com/google/uuid"
)

// Slide is a homepage banner entry.
type Slide struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Title        string    `gorm:"column:title;not null"`
	Subtitle     *string   `gorm:"column:subtitle"`
	ImageURL     string    `gorm:"column:image_url;not null"`
	LinkURL      *string   `gorm:"column:link_url"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the legacy singular table name.
func (Slide) TableName() string {
	return "slideshow"
}
