package models

import (
	"time"

	"github.com/google/uuid"
)

// Role groups permissions; users reach them through RoleAssignments.
type Role struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`

	Permissions []Permission `gorm:"many2many:role_permissions"`
}
