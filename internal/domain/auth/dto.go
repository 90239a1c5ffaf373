package auth

import (
	"time"

	"github.com/google/uuid"
)

// CustomerLoginRequest authenticates a customer by their access code
type CustomerLoginRequest struct {
	CustomerCode string `json:"customer_code" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

// AdminLoginRequest authenticates a team member by email
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest invalidates a refresh token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AccountResponse is the authenticated identity in auth payloads
type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TokensResponse carries the issued token pair
type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthResponse is returned by login and refresh
type AuthResponse struct {
	Account AccountResponse `json:"account"`
	Tokens  TokensResponse  `json:"tokens"`
}
