package api

import (
	"errors"
	"net/http"

	"pinecone-be/internal/order"
	"pinecone-be/internal/profile"
	"pinecone-be/internal/telegram"
	"pinecone-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	Address      string `json:"address"`
	ContactPhone string `json:"contact_phone"`
	Comment      string `json:"comment"`
	InitData     string `json:"init_data"`
}

type checkoutResponse struct {
	OrderID      string `json:"order_id"`
	ShortOrderID string `json:"short_order_id"`
}

func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	identity, err := h.checkoutIdentity(c, req.InitData)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	orderID, err := h.orders.Submit(c.Request.Context(), h.cartKey(c), identity, order.DeliveryInfo{
		Address:      req.Address,
		ContactPhone: req.ContactPhone,
		Comment:      req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart),
			errors.Is(err, order.ErrMissingAddress),
			errors.Is(err, order.ErrMissingPhone):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, profile.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, order.ErrSubmitInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit order"})
		}
		return
	}

	c.JSON(http.StatusCreated, checkoutResponse{
		OrderID:      orderID.String(),
		ShortOrderID: utils.ShortID(orderID),
	})
}

// checkoutIdentity picks the identity path: signed Mini App initData means
// the Telegram path, anything else falls back to the session user.
func (h *Handler) checkoutIdentity(c *gin.Context, initData string) (profile.Identity, error) {
	if initData != "" {
		tgUser, err := telegram.ValidateInitData(initData, h.botToken)
		if err != nil {
			return profile.Identity{}, err
		}
		return profile.Identity{
			Platform: profile.PlatformTelegram,
			Telegram: tgUser,
		}, nil
	}

	return profile.Identity{Platform: profile.PlatformSession}, nil
}

func (h *Handler) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()

	profileID, err := h.resolver.Resolve(ctx, profile.Identity{Platform: profile.PlatformSession})
	if err != nil {
		if errors.Is(err, profile.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load orders"})
		return
	}

	orders, err := h.orders.OrdersByProfile(ctx, profileID, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
