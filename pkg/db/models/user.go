package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/contentcreate/storefront-backend/pkg/enums"
)

// User is a storefront account. The scalar Role column predates the RBAC
// tables and is kept for backward compatibility; RoleAssignments carry the
// granular grants.
type User struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Username     string             `gorm:"column:username;not null;uniqueIndex"`
	Email        string             `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string             `gorm:"column:password_hash;not null"`
	Role         enums.LegacyRole   `gorm:"column:role;not null;default:'customer'"`
	IsSeller     bool               `gorm:"column:is_seller;not null;default:false"`
	SellerStatus enums.SellerStatus `gorm:"column:seller_status;not null;default:'inactive'"`
	LastLogin    *time.Time         `gorm:"column:last_login"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`

	RoleAssignments []RoleAssignment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
