package acceptance

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/prperemyshlev/storefront/internal/domain"
	"github.com/prperemyshlev/storefront/internal/dto"
	"github.com/prperemyshlev/storefront/internal/seed"
	"go.uber.org/zap"
)

func (s *Suite) seedCatalog() []domain.Product {
	_, err := seed.New(s.Repos.Product, s.Repos.User, zap.NewNop()).Products(context.Background())
	s.Require().NoError(err)
	return seed.Catalog()
}

func (s *Suite) listProducts(params url.Values) dto.ProductListResponse {
	var resp dto.ProductListResponse
	r := s.call(http.MethodGet, "/api/v1/products?"+params.Encode(), nil, "", &resp)
	s.Require().Equal(http.StatusOK, r.StatusCode, params.Encode())
	s.Require().True(resp.Success)
	return resp
}

// listAll walks every page of the listing
func (s *Suite) listAll(params url.Values, limit int) []domain.Product {
	var all []domain.Product
	for page := 1; ; page++ {
		params.Set("page", fmt.Sprint(page))
		params.Set("limit", fmt.Sprint(limit))
		resp := s.listProducts(params)

		s.LessOrEqual(len(resp.Data), limit)
		s.Equal(int(math.Ceil(float64(resp.Pagination.TotalProducts)/float64(limit))), resp.Pagination.TotalPages)

		all = append(all, resp.Data...)
		if page >= resp.Pagination.TotalPages {
			return all
		}
	}
}

func (s *Suite) TestProducts_DefaultPage() {
	catalog := s.seedCatalog()

	resp := s.listProducts(url.Values{})
	s.Len(resp.Data, min(12, len(catalog)))
	s.Equal(1, resp.Pagination.CurrentPage)
	s.Equal(len(catalog), resp.Pagination.TotalProducts)
}

func (s *Suite) TestProducts_CategoryFilter() {
	s.seedCatalog()

	for _, category := range domain.Categories {
		for _, p := range s.listAll(url.Values{"category": {string(category)}}, 4) {
			s.Equal(category, p.Category)
		}
	}

	r := s.call(http.MethodGet, "/api/v1/products?category=snacks", nil, "", nil)
	s.Equal(http.StatusBadRequest, r.StatusCode)
}

func (s *Suite) TestProducts_Search() {
	catalog := s.seedCatalog()

	expected := 0
	for _, p := range catalog {
		if strings.Contains(strings.ToLower(p.Name+" "+p.Description), "vitamin") {
			expected++
		}
	}

	found := s.listAll(url.Values{"search": {"VITAMIN"}}, 5)
	s.Len(found, expected)
	for _, p := range found {
		s.True(strings.Contains(strings.ToLower(p.Name), "vitamin") ||
			strings.Contains(strings.ToLower(p.Description), "vitamin"), p.Name)
	}

	// LIKE wildcards match literally
	s.Empty(s.listProducts(url.Values{"search": {"%"}}).Data)
}

func (s *Suite) TestProducts_PriceRange() {
	s.seedCatalog()

	for _, p := range s.listAll(url.Values{"priceRange": {"20-40"}}, 5) {
		s.GreaterOrEqual(p.Price, 20.0)
		s.LessOrEqual(p.Price, 40.0)
	}
	for _, p := range s.listAll(url.Values{"priceRange": {"40-"}}, 5) {
		s.GreaterOrEqual(p.Price, 40.0)
	}
	for _, p := range s.listAll(url.Values{"priceRange": {"-20"}}, 5) {
		s.LessOrEqual(p.Price, 20.0)
	}

	all := s.listProducts(url.Values{}).Pagination.TotalProducts
	s.Equal(all, s.listProducts(url.Values{"priceRange": {"abc-xyz"}}).Pagination.TotalProducts)
}

func (s *Suite) TestProducts_SortAcrossPages() {
	s.seedCatalog()

	prices := func(items []domain.Product) []float64 {
		out := make([]float64, len(items))
		for i, p := range items {
			out[i] = p.Price
		}
		return out
	}

	asc := prices(s.listAll(url.Values{"sortBy": {"price-asc"}}, 5))
	s.True(sort.Float64sAreSorted(asc))

	desc := prices(s.listAll(url.Values{"sortBy": {"price-desc"}}, 5))
	s.True(sort.SliceIsSorted(desc, func(i, j int) bool { return desc[i] > desc[j] }))

	rated := s.listAll(url.Values{"sortBy": {"rating"}}, 5)
	for i := 1; i < len(rated); i++ {
		s.GreaterOrEqual(rated[i-1].Ratings.Average, rated[i].Ratings.Average)
	}
}

func (s *Suite) TestProducts_TiesKeepInsertionOrder() {
	ctx := context.Background()
	created := time.Now().UTC().Truncate(time.Second)
	for i := range 6 {
		p := domain.Product{
			Name:      fmt.Sprintf("Tied %d", i),
			Price:     10,
			Category:  domain.CategoryHerbs,
			CreatedAt: created,
		}
		s.Require().NoError(s.Repos.Product.Create(ctx, &p))
	}

	first := s.listAll(url.Values{"sortBy": {"price-asc"}}, 4)
	second := s.listAll(url.Values{"sortBy": {"price-asc"}}, 4)
	s.Require().Len(first, 6)
	for i := range first {
		s.Equal(fmt.Sprintf("Tied %d", i), first[i].Name)
		s.Equal(first[i].ID, second[i].ID)
	}
}

func (s *Suite) TestProducts_OutOfRangeWindow() {
	s.seedCatalog()

	resp := s.listProducts(url.Values{"page": {"99"}})
	s.Empty(resp.Data)
	s.NotZero(resp.Pagination.TotalProducts)

	resp = s.listProducts(url.Values{"page": {"-1"}, "limit": {"5"}})
	s.Empty(resp.Data)
}

func (s *Suite) TestProducts_Get() {
	s.seedCatalog()
	first := s.listProducts(url.Values{"limit": {"1"}}).Data[0]

	var resp dto.ProductResponse
	r := s.call(http.MethodGet, "/api/v1/products/"+first.ID, nil, "", &resp)
	s.Equal(http.StatusOK, r.StatusCode)
	s.Equal(first.Name, resp.Data.Name)

	r = s.call(http.MethodGet, "/api/v1/products/00000000-0000-0000-0000-000000000000", nil, "", nil)
	s.Equal(http.StatusNotFound, r.StatusCode)

	r = s.call(http.MethodGet, "/api/v1/products/not-a-uuid", nil, "", nil)
	s.Equal(http.StatusNotFound, r.StatusCode)
}
