package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/prperemyshlev/storefront/internal/catalog"
	"github.com/prperemyshlev/storefront/internal/domain"
	"github.com/prperemyshlev/storefront/internal/repository"
	"github.com/prperemyshlev/storefront/internal/utils"
	"go.uber.org/zap"
)

type Config struct {
	AdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD"`
	AdminName     string `env:"SEED_ADMIN_NAME,default=Admin User"`
	BCryptCost    int    `env:"BCRYPT_COST,default=12"`
}

// CacheInvalidator drops cached listings after the catalog changes
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type Seeder struct {
	products repository.ProductRepository
	users    repository.UserRepository
	cache    CacheInvalidator
	logger   *zap.Logger
}

func New(products repository.ProductRepository, users repository.UserRepository, logger *zap.Logger) *Seeder {
	return &Seeder{products: products, users: users, logger: logger}
}

// WithCache makes Products invalidate cache after inserting
func (s *Seeder) WithCache(cache CacheInvalidator) *Seeder {
	s.cache = cache
	return s
}

// Products inserts the sample catalogue unless the store already holds products.
// It returns the number of products inserted.
func (s *Seeder) Products(ctx context.Context) (int, error) {
	q, err := catalog.Compile(catalog.Params{Limit: 1})
	if err != nil {
		return 0, err
	}

	_, total, err := s.products.Query(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if total > 0 {
		s.logger.Info("Catalog already seeded", zap.Int("products", total))
		return 0, nil
	}

	inserted := 0
	for _, p := range Catalog() {
		if err := s.products.Create(ctx, &p); err != nil {
			return inserted, fmt.Errorf("failed to insert %q: %w", p.Name, err)
		}
		inserted++
	}

	s.logger.Info("Catalog seeded", zap.Int("products", inserted))

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("Failed to invalidate listing cache", zap.Error(err))
		}
	}
	return inserted, nil
}

// Admin creates an active admin account from cfg. An existing account with
// the same email is left untouched.
func (s *Seeder) Admin(ctx context.Context, cfg Config) (*domain.User, error) {
	if cfg.AdminEmail == "" {
		return nil, nil
	}

	email := utils.SanitizeEmail(cfg.AdminEmail)
	if !utils.ValidateEmail(email) {
		return nil, fmt.Errorf("invalid admin email %q", cfg.AdminEmail)
	}
	if !utils.ValidatePassword(cfg.AdminPassword) {
		return nil, fmt.Errorf("admin password must be at least %d characters and at most %d bytes long", utils.MinPasswordLength, utils.MaxPasswordBytes)
	}

	hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &domain.User{
		UserName:     cfg.AdminName,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.StatusActive,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.logger.Info("Admin already exists", zap.String("email", email))
			return s.users.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("Admin created", zap.String("email", email), zap.String("user_id", admin.ID))
	return admin, nil
}
