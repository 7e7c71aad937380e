package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/prperemyshlev/storefront/internal/domain"
	"github.com/prperemyshlev/storefront/internal/repository/memory"
	"github.com/prperemyshlev/storefront/internal/utils"
)

func TestCatalogIsValid(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range Catalog() {
		assert.NotEmpty(t, p.Name)
		assert.True(t, p.Category.Valid(), p.Name)
		assert.GreaterOrEqual(t, p.Price, 0.0)
		assert.GreaterOrEqual(t, p.Stock, 0)
		assert.LessOrEqual(t, p.Ratings.Average, 5.0)
		assert.False(t, seen[p.Name], "duplicate %s", p.Name)
		seen[p.Name] = true
	}
}

func TestProductsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	products := memory.NewProductRepository()
	s := New(products, memory.NewUserRepository(), zap.NewNop())

	n, err := s.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(Catalog()), n)

	n, err = s.Products(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

type countingCache struct {
	invalidations int
}

func (c *countingCache) Invalidate(context.Context) error {
	c.invalidations++
	return nil
}

func TestProductsInvalidatesCacheOnlyWhenInserting(t *testing.T) {
	ctx := context.Background()
	cache := &countingCache{}
	s := New(memory.NewProductRepository(), memory.NewUserRepository(), zap.NewNop()).WithCache(cache)

	_, err := s.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidations)

	_, err = s.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidations)
}

func TestAdmin(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	s := New(memory.NewProductRepository(), users, zap.NewNop())

	none, err := s.Admin(ctx, Config{})
	require.NoError(t, err)
	assert.Nil(t, none)

	cfg := Config{AdminEmail: "Admin@Wellness.com", AdminPassword: "Admin123!", AdminName: "Admin User", BCryptCost: bcrypt.MinCost}
	admin, err := s.Admin(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "admin@wellness.com", admin.Email)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, domain.StatusActive, admin.Status)
	assert.True(t, utils.CheckPasswordHash("Admin123!", admin.PasswordHash))

	again, err := s.Admin(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)

	_, err = s.Admin(ctx, Config{AdminEmail: "admin@wellness.com", AdminPassword: "123"})
	assert.Error(t, err)
}
