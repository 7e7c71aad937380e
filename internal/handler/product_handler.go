package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/storefront/internal/catalog"
	"github.com/prperemyshlev/storefront/internal/domain"
	"github.com/prperemyshlev/storefront/internal/dto"
	"github.com/prperemyshlev/storefront/internal/service"
	"go.uber.org/zap"
)

// ProductHandler serves the public catalog
type ProductHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalogService service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// List returns one page of products
// @Summary List products
// @Tags products
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param category query string false "Category"
// @Param search query string false "Substring of name or description"
// @Param priceRange query string false "min-max"
// @Param sortBy query string false "price-asc, price-desc, name-asc, name-desc or rating"
// @Success 200 {object} dto.ProductListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var query dto.ProductListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.catalogService.ListProducts(c.Request.Context(), catalog.Params{
		Page:       parseInt(query.Page),
		Limit:      parseInt(query.Limit),
		Category:   query.Category,
		Search:     query.Search,
		PriceRange: query.PriceRange,
		SortBy:     query.SortBy,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	items := page.Items
	if items == nil {
		items = []domain.Product{}
	}

	c.JSON(http.StatusOK, dto.ProductListResponse{
		Success: true,
		Data:    items,
		Pagination: dto.Pagination{
			CurrentPage:   page.Page,
			TotalPages:    page.TotalPages,
			TotalProducts: page.Total,
		},
	})
}

// Get returns a single product
// @Summary Get product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProductResponse{
		Success: true,
		Data:    *product,
	})
}

// parseInt returns 0 for anything that is not an integer, which the
// compiler treats as "use the default"
func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
