package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type cartResponse struct {
	Items      domain.Cart     `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type addItemRequest struct {
	ProductID int  `json:"productId" binding:"required,min=1"`
	Quantity  *int `json:"quantity" binding:"omitempty,min=1,max=999"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=999"`
}

func (h *handlers) cartSnapshot() cartResponse {
	items := h.shop.Cart()
	if items == nil {
		items = domain.Cart{}
	}
	return cartResponse{Items: items, TotalItems: items.TotalItems(), TotalPrice: items.TotalPrice()}
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartSnapshot())
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "productId and a quantity between 1 and 999 are required")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	p, err := h.catalog.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	h.shop.AddToCart(c.Request.Context(), *p, quantity)
	c.JSON(http.StatusOK, h.cartSnapshot())
}

// updateCartItem sets an absolute quantity; zero or less removes the item.
func (h *handlers) updateCartItem(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "quantity is required and at most 999")
		return
	}
	h.shop.UpdateQuantity(c.Request.Context(), id, *req.Quantity)
	c.JSON(http.StatusOK, h.cartSnapshot())
}

func (h *handlers) removeCartItem(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	h.shop.RemoveFromCart(c.Request.Context(), id)
	c.JSON(http.StatusOK, h.cartSnapshot())
}

func (h *handlers) clearCart(c *gin.Context) {
	h.shop.ClearCart(c.Request.Context())
	c.JSON(http.StatusOK, h.cartSnapshot())
}
