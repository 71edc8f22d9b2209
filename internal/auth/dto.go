package auth

import (
	"github.com/contentcreate/storefront-backend/internal/users"
)

// RegisterRequest captures the payload for creating an account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=40"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`

	// ClientIP is filled by the transport layer, never by the caller.
	ClientIP string `json:"-"`
}

// AuthResponse contains the token and user produced by a successful
// register or login.
type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}
