package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/contentcreate/storefront-backend/pkg/db/models"
	"github.com/contentcreate/storefront-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID           uuid.UUID          `json:"id"`
	Username     string             `json:"username"`
	Email        string             `json:"email"`
	Role         enums.LegacyRole   `json:"role"`
	IsSeller     bool               `json:"is_seller"`
	SellerStatus enums.SellerStatus `json:"seller_status"`
	LastLogin    *time.Time         `json:"last_login,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		IsSeller:     u.IsSeller,
		SellerStatus: u.SellerStatus,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
	}
}
