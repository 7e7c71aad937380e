package service

import (
	"context"

	"github.com/prperemyshlev/storefront/internal/catalog"
	"github.com/prperemyshlev/storefront/internal/domain"
	"github.com/prperemyshlev/storefront/internal/dto"
)

// AuthResult is a user together with the token pair just issued for it
type AuthResult struct {
	User   *domain.User
	Tokens domain.TokenPair
}

// AuthService defines methods for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, userID string) error
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
	Authorize(ctx context.Context, userID string, roles ...domain.Role) (*domain.User, error)
	UpdateStatus(ctx context.Context, userID string, status domain.UserStatus) (*domain.User, error)
	UpdateRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error)
}

// CatalogService defines methods for product reads
type CatalogService interface {
	ListProducts(ctx context.Context, params catalog.Params) (*ProductPage, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}
