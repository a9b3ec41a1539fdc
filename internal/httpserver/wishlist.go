package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/search"
)

type wishlistResponse struct {
	IDs          domain.Wishlist  `json:"ids"`
	Products     []domain.Product `json:"products"`
	CatalogError string           `json:"catalogError,omitempty"`
}

type membershipResponse struct {
	ProductID  int  `json:"productId"`
	InWishlist bool `json:"inWishlist"`
}

// getWishlist always returns the stored IDs. Product details are best effort
// since the catalog may be down while the wishlist is not.
func (h *handlers) getWishlist(c *gin.Context) {
	ids := h.shop.Wishlist()
	if ids == nil {
		ids = domain.Wishlist{}
	}
	resp := wishlistResponse{IDs: ids, Products: []domain.Product{}}

	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.logger.Warn("wishlist products unavailable", zap.Error(err))
		resp.CatalogError = "catalog unavailable"
	} else {
		resp.Products = search.ByIDs(products, ids)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) wishlistMembership(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, membershipResponse{ProductID: id, InWishlist: h.shop.IsInWishlist(id)})
}

func (h *handlers) toggleWishlist(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	in := h.shop.ToggleWishlist(c.Request.Context(), id)
	c.JSON(http.StatusOK, membershipResponse{ProductID: id, InWishlist: in})
}
