package models

import (
	"time"

	"github.com/google/uuid"
)

// Permission names one action on one resource, e.g. product/create.
type Permission struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Description *string   `gorm:"column:description"`
	Resource    string    `gorm:"column:resource;not null"`
	Action      string    `gorm:"column:action;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
