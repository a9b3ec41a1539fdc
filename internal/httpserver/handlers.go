package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/search"
)

type handlers struct {
	catalog catalogSource
	shop    shopStore
	feed    notificationFeed
	logger  *zap.Logger
}

func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// writeCatalogError maps catalog failures onto HTTP statuses.
func writeCatalogError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, "product not found")
	case errors.Is(err, catalog.ErrUnavailable):
		writeError(c, http.StatusBadGateway, "catalog unavailable")
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func productIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}

func criteriaFromQuery(c *gin.Context) (search.Criteria, error) {
	priceRange, err := search.ParsePriceRange(c.Query("priceRange"))
	if err != nil {
		return search.Criteria{}, err
	}
	sortKey, err := search.ParseSort(c.Query("sort"))
	if err != nil {
		return search.Criteria{}, err
	}
	return search.Criteria{
		Query:      c.Query("q"),
		Category:   c.DefaultQuery("category", search.AllCategories),
		PriceRange: priceRange,
		Sort:       sortKey,
	}, nil
}

type productListResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

func (h *handlers) listProducts(c *gin.Context) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	result := search.Apply(products, criteria)
	c.JSON(http.StatusOK, productListResponse{Products: result, Total: len(result)})
}

type productResponse struct {
	domain.Product
	InWishlist bool `json:"inWishlist"`
}

func (h *handlers) getProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, productResponse{Product: *p, InWishlist: h.shop.IsInWishlist(id)})
}

func (h *handlers) listCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *handlers) listNotifications(c *gin.Context) {
	if h.feed == nil {
		c.JSON(http.StatusOK, gin.H{"notifications": []any{}})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		writeError(c, http.StatusBadRequest, "invalid limit")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": h.feed.Recent(limit)})
}
