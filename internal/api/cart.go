package api

import (
	"errors"
	"net/http"

	"pinecone-be/internal/cart"
	"pinecone-be/internal/product"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	cartCookieName   = "cart_session"
	cartCookieMaxAge = 30 * 24 * 60 * 60
)

// cartKey returns the caller's cart session key, issuing the cookie on
// first access.
func (h *Handler) cartKey(c *gin.Context) string {
	if key, err := c.Cookie(cartCookieName); err == nil && key != "" {
		return key
	}

	key := uuid.NewString()
	c.SetCookie(cartCookieName, key, cartCookieMaxAge, "/", "", false, true)
	return key
}

type cartResponse struct {
	Items       []cart.Item `json:"items"`
	TotalItems  int         `json:"total_items"`
	TotalAmount string      `json:"total_amount"`
}

func (h *Handler) cartState(c *gin.Context, key string) (cartResponse, error) {
	ctx := c.Request.Context()

	items, err := h.carts.Items(ctx, key)
	if err != nil {
		return cartResponse{}, err
	}
	totalItems, err := h.carts.TotalItems(ctx, key)
	if err != nil {
		return cartResponse{}, err
	}
	totalAmount, err := h.carts.TotalAmount(ctx, key)
	if err != nil {
		return cartResponse{}, err
	}

	return cartResponse{
		Items:       items,
		TotalItems:  totalItems,
		TotalAmount: totalAmount.String(),
	}, nil
}

func (h *Handler) respondCart(c *gin.Context, key string) {
	state, err := h.cartState(c, key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) GetCart(c *gin.Context) {
	h.respondCart(c, h.cartKey(c))
}

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

func (h *Handler) AddCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	// Snapshot name and price from the catalog; the cart keeps them even
	// if the product changes later.
	p, err := h.products.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}

	key := h.cartKey(c)
	item := cart.Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
	}
	if p.ImageURL != nil {
		item.ImageURL = *p.ImageURL
	}

	if err := h.carts.AddItem(c.Request.Context(), key, item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	h.respondCart(c, key)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}

	key := h.cartKey(c)
	if err := h.carts.UpdateQuantity(c.Request.Context(), key, productID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, cart.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, cart.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		}
		return
	}

	h.respondCart(c, key)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	key := h.cartKey(c)
	if err := h.carts.RemoveItem(c.Request.Context(), key, productID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	h.respondCart(c, key)
}

func (h *Handler) ClearCart(c *gin.Context) {
	key := h.cartKey(c)
	if err := h.carts.Clear(c.Request.Context(), key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	h.respondCart(c, key)
}
