package dto

import (
	"github.com/prperemyshlev/storefront/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// MessageResponse is a success without payload
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PublicUser is the user view safe to return to clients
type PublicUser struct {
	ID       string            `json:"id"`
	UserName string            `json:"user_name"`
	Email    string            `json:"email"`
	Role     domain.Role       `json:"role"`
	Status   domain.UserStatus `json:"status"`
}

// NewPublicUser strips credentials from a user record
func NewPublicUser(u *domain.User) PublicUser {
	return PublicUser{
		ID:       u.ID,
		UserName: u.UserName,
		Email:    u.Email,
		Role:     u.Role,
		Status:   u.Status,
	}
}

// AuthData is the payload of register and login
type AuthData struct {
	User         PublicUser `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	ExpiresIn    int        `json:"expiresIn"`
}

// AuthResponse represents an authentication response
type AuthResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    AuthData `json:"data"`
}

// TokenData is a freshly rotated token pair
type TokenData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// NewTokenData converts a domain token pair
func NewTokenData(p domain.TokenPair) TokenData {
	return TokenData{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresIn:    p.ExpiresIn,
	}
}

// TokenResponse represents a refresh response
type TokenResponse struct {
	Success bool      `json:"success"`
	Data    TokenData `json:"data"`
}

// UserResponse represents a user response
type UserResponse struct {
	Success bool       `json:"success"`
	Data    PublicUser `json:"data"`
}

// Pagination describes where a listing page sits in the full result
type Pagination struct {
	CurrentPage   int `json:"currentPage"`
	TotalPages    int `json:"totalPages"`
	TotalProducts int `json:"totalProducts"`
}

// ProductListResponse represents a product listing page
type ProductListResponse struct {
	Success    bool             `json:"success"`
	Data       []domain.Product `json:"data"`
	Pagination Pagination       `json:"pagination"`
}

// ProductResponse represents a single product
type ProductResponse struct {
	Success bool           `json:"success"`
	Data    domain.Product `json:"data"`
}
