package models

import (
	"time"

	"github.com/google/uuid"
)

// RoleAssignment links a user to a role. Revocation flips IsActive to false
// rather than deleting the row so the audit trail survives.
type RoleAssignment struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	RoleID     uuid.UUID  `gorm:"column:role_id;type:uuid;not null"`
	AssignedBy *uuid.UUID `gorm:"column:assigned_by;type:uuid"`
	IsActive   bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`

	Role *Role `gorm:"foreignKey:RoleID"`
}
