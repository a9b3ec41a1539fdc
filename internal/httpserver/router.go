package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/notify"
)

type catalogSource interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
}

type shopStore interface {
	AddToCart(ctx context.Context, p domain.Product, quantity int)
	RemoveFromCart(ctx context.Context, productID int)
	UpdateQuantity(ctx context.Context, productID, quantity int)
	ToggleWishlist(ctx context.Context, productID int) bool
	ClearCart(ctx context.Context)
	IsInWishlist(productID int) bool
	Cart() domain.Cart
	Wishlist() domain.Wishlist
	TotalItems() int
	TotalPrice() decimal.Decimal
}

type notificationFeed interface {
	Recent(limit int) []notify.Notification
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the routes drive. Feed and Ready are optional.
type Deps struct {
	Catalog     catalogSource
	Shop        shopStore
	Feed        notificationFeed
	Ready       pinger
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps) (*gin.Engine, error) {
	if deps.Catalog == nil || deps.Shop == nil {
		return nil, errors.New("httpserver: catalog and shop are required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestID(), accessLog(logger), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Ready))

	h := &handlers{catalog: deps.Catalog, shop: deps.Shop, feed: deps.Feed, logger: logger}

	router.GET("/products", h.listProducts)
	router.GET("/products/:id", h.getProduct)
	router.GET("/categories", h.listCategories)

	router.GET("/cart", h.getCart)
	router.DELETE("/cart", h.clearCart)
	router.POST("/cart/items", h.addCartItem)
	router.PATCH("/cart/items/:id", h.updateCartItem)
	router.DELETE("/cart/items/:id", h.removeCartItem)

	router.GET("/wishlist", h.getWishlist)
	router.GET("/wishlist/:id", h.wishlistMembership)
	router.POST("/wishlist/:id/toggle", h.toggleWishlist)

	router.GET("/notifications", h.listNotifications)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
