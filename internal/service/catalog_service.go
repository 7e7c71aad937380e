package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/prperemyshlev/storefront/internal/catalog"
	"github.com/prperemyshlev/storefront/internal/domain"
	"github.com/prperemyshlev/storefront/internal/repository"
	"go.uber.org/zap"
)

// ProductPage is one windowed page of a listing plus its position
type ProductPage struct {
	Items      []domain.Product `json:"items"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
}

// catalogService implements CatalogService interface
type catalogService struct {
	productRepo repository.ProductRepository
	cache       ListingCache
	metrics     *Metrics
	logger      *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(productRepo repository.ProductRepository, cache ListingCache, metrics *Metrics, logger *zap.Logger) CatalogService {
	if cache == nil {
		cache = NoopListingCache{}
	}
	return &catalogService{
		productRepo: productRepo,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
	}
}

// ListProducts compiles the parameters and serves the page from the cache or the store
func (s *catalogService) ListProducts(ctx context.Context, params catalog.Params) (*ProductPage, error) {
	q, err := catalog.Compile(params)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownCategory) {
			return nil, newValidationError("category", fmt.Sprintf("unknown category %q", params.Category))
		}
		return nil, err
	}

	version, err := s.cache.Version(ctx)
	if err != nil {
		s.logger.Warn("Listing cache unavailable", zap.Error(err))
		return s.query(ctx, q)
	}

	key := fmt.Sprintf("v%d:%s", version, q.Key())
	if page, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("Listing cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		s.metrics.catalogQuery(ctx, "hit")
		return page, nil
	}

	page, err := s.query(ctx, q)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, page); err != nil {
		s.logger.Warn("Listing cache write failed", zap.String("key", key), zap.Error(err))
	}

	return page, nil
}

// query reads one page from the store
func (s *catalogService) query(ctx context.Context, q catalog.Query) (*ProductPage, error) {
	items, total, err := s.productRepo.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	s.metrics.catalogQuery(ctx, "miss")

	return &ProductPage{
		Items:      items,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: catalog.TotalPages(total, q.Limit),
	}, nil
}

// GetProduct returns a single product by id
func (s *catalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}
