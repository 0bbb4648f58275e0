package api

import (
	"net/http"

	"pinecone-be/internal/cart"
	"pinecone-be/internal/middleware"
	"pinecone-be/internal/order"
	"pinecone-be/internal/product"
	"pinecone-be/internal/profile"
	"pinecone-be/internal/review"
	"pinecone-be/internal/telegram"
	"pinecone-be/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	users    user.Service
	products product.Service
	reviews  review.Service
	carts    *cart.Store
	orders   order.Service
	resolver profile.Resolver
	bot      *telegram.Bot
	notifier order.Notifier
	botToken string
}

func NewHandler(
	users user.Service,
	products product.Service,
	reviews review.Service,
	carts *cart.Store,
	orders order.Service,
	resolver profile.Resolver,
	bot *telegram.Bot,
	notifier order.Notifier,
	botToken string,
) *Handler {
	return &Handler{
		users:    users,
		products: products,
		reviews:  reviews,
		carts:    carts,
		orders:   orders,
		resolver: resolver,
		bot:      bot,
		notifier: notifier,
		botToken: botToken,
	}
}

// NewRouter builds the gin engine with the full middleware chain and route
// table.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Prometheus())
	r.Use(middleware.Auth())
	r.Use(middleware.RateLimit())

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/webhook/telegram", h.TelegramWebhook)

	api := r.Group("/api")
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)

		api.GET("/products", h.ListProducts)
		api.GET("/categories", h.ListCategories)
		api.GET("/products/:id", h.GetProduct)
		api.GET("/products/:id/reviews", h.ListReviews)
		api.POST("/products/:id/reviews", h.AddReview)

		api.GET("/cart", h.GetCart)
		api.POST("/cart/items", h.AddCartItem)
		api.PATCH("/cart/items/:productID", h.UpdateCartItem)
		api.DELETE("/cart/items/:productID", h.RemoveCartItem)
		api.DELETE("/cart", h.ClearCart)

		api.POST("/checkout", h.Checkout)
		api.GET("/orders", h.ListOrders)
	}

	return r
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
