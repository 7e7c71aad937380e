package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prperemyshlev/storefront/internal/catalog"
	"github.com/prperemyshlev/storefront/internal/domain"
	"github.com/prperemyshlev/storefront/internal/repository/memory"
)

type mapCache struct {
	pages    map[string]*ProductPage
	version  int64
	versions int
	failed   bool
}

func (c *mapCache) Version(context.Context) (int64, error) {
	c.versions++
	if c.failed {
		return 0, errors.New("connection refused")
	}
	return c.version, nil
}

func (c *mapCache) Invalidate(context.Context) error {
	c.version++
	return nil
}

func (c *mapCache) Get(_ context.Context, key string) (*ProductPage, bool, error) {
	if c.failed {
		return nil, false, errors.New("connection refused")
	}
	page, ok := c.pages[key]
	return page, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, page *ProductPage) error {
	if c.failed {
		return errors.New("connection refused")
	}
	c.pages[key] = page
	return nil
}

func newCatalogFixture(t *testing.T, cache ListingCache) (CatalogService, *memory.ProductRepository) {
	t.Helper()

	repo := memory.NewProductRepository()
	for i, name := range []string{"Zinc", "Iron", "Calcium", "Magnesium", "Selenium"} {
		require.NoError(t, repo.Create(context.Background(), &domain.Product{
			Name:     name,
			Price:    float64(10 + i),
			Category: domain.CategoryMinerals,
		}))
	}
	return NewCatalogService(repo, cache, NoopMetrics(), zap.NewNop()), repo
}

func TestListProductsPagination(t *testing.T) {
	svc, _ := newCatalogFixture(t, nil)

	page, err := svc.ListProducts(context.Background(), catalog.Params{Page: 2, Limit: 2, SortBy: "price-asc"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Calcium", page.Items[0].Name)
	assert.Equal(t, "Magnesium", page.Items[1].Name)

	page, err = svc.ListProducts(context.Background(), catalog.Params{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 5, page.Total)
}

func TestListProductsUnknownCategory(t *testing.T) {
	svc, _ := newCatalogFixture(t, nil)

	_, err := svc.ListProducts(context.Background(), catalog.Params{Category: "snacks"})
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)
}

func TestListProductsUsesCache(t *testing.T) {
	cache := &mapCache{pages: map[string]*ProductPage{}}
	svc, repo := newCatalogFixture(t, cache)

	first, err := svc.ListProducts(context.Background(), catalog.Params{})
	require.NoError(t, err)
	assert.Len(t, cache.pages, 1)

	require.NoError(t, repo.Create(context.Background(), &domain.Product{Name: "Copper", Category: domain.CategoryMinerals}))

	second, err := svc.ListProducts(context.Background(), catalog.Params{Page: 1, Limit: 12})
	require.NoError(t, err)
	assert.Equal(t, first.Total, second.Total)
}

func TestListProductsDegradesWhenCacheFails(t *testing.T) {
	cache := &mapCache{pages: map[string]*ProductPage{}, failed: true}
	svc, _ := newCatalogFixture(t, cache)

	page, err := svc.ListProducts(context.Background(), catalog.Params{})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 1, cache.versions)
	assert.Empty(t, cache.pages)
}

func TestListProductsInvalidationStartsFreshSnapshot(t *testing.T) {
	ctx := context.Background()
	cache := &mapCache{pages: map[string]*ProductPage{}}
	svc, repo := newCatalogFixture(t, cache)

	first, err := svc.ListProducts(ctx, catalog.Params{Page: 1, Limit: 2, SortBy: "name-asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Calcium", "Iron"}, names(first.Items))

	require.NoError(t, repo.Create(ctx, &domain.Product{Name: "Boron", Category: domain.CategoryMinerals}))

	// same version: still the cached snapshot
	stale, err := svc.ListProducts(ctx, catalog.Params{Page: 1, Limit: 2, SortBy: "name-asc"})
	require.NoError(t, err)
	assert.Equal(t, 5, stale.Total)

	require.NoError(t, cache.Invalidate(ctx))

	var all []string
	for p := 1; p <= 3; p++ {
		page, err := svc.ListProducts(ctx, catalog.Params{Page: p, Limit: 2, SortBy: "name-asc"})
		require.NoError(t, err)
		assert.Equal(t, 6, page.Total)
		all = append(all, names(page.Items)...)
	}
	assert.Equal(t, []string{"Boron", "Calcium", "Iron", "Magnesium", "Selenium", "Zinc"}, all)
}

func names(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestGetProduct(t *testing.T) {
	svc, repo := newCatalogFixture(t, nil)

	items, _, err := repo.Query(context.Background(), mustCompile(t, catalog.Params{Limit: 1}))
	require.NoError(t, err)

	product, err := svc.GetProduct(context.Background(), items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, items[0].Name, product.Name)

	_, err = svc.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func mustCompile(t *testing.T, p catalog.Params) catalog.Query {
	t.Helper()
	q, err := catalog.Compile(p)
	require.NoError(t, err)
	return q
}
