package repository

import (
	"context"

	"github.com/prperemyshlev/storefront/internal/catalog"
	"github.com/prperemyshlev/storefront/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// SetRefreshToken overwrites the stored refresh token digest; nil clears it
	SetRefreshToken(ctx context.Context, userID string, tokenHash *string) error
	// RotateRefreshToken replaces oldHash with newHash only if oldHash is still
	// the stored digest. It reports whether the swap happened.
	RotateRefreshToken(ctx context.Context, userID, oldHash, newHash string) (bool, error)
	UpdateStatus(ctx context.Context, userID string, status domain.UserStatus) error
	UpdateRole(ctx context.Context, userID string, role domain.Role) error
}

// ProductRepository defines methods for catalog reads and seeding
type ProductRepository interface {
	// Query returns the windowed page of products matching q and the total
	// number of matches regardless of the window
	Query(ctx context.Context, q catalog.Query) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
}
