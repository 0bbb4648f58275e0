package api

import (
	"net/http"

	"pinecone-be/internal/logger"
	"pinecone-be/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// webhookEnvelope covers both payload shapes arriving on the webhook: Bot
// API updates (update_id set) and the legacy internal notify_order action.
type webhookEnvelope struct {
	telegram.Update

	Action     string          `json:"action"`
	TelegramID int64           `json:"telegram_id"`
	OrderID    string          `json:"order_id"`
	Total      decimal.Decimal `json:"total"`
}

// TelegramWebhook receives Bot API updates. It always answers 200 on a
// parseable body: Telegram retries non-2xx responses and a broken command
// handler must not wedge the update queue.
func (h *Handler) TelegramWebhook(c *gin.Context) {
	var env webhookEnvelope
	if err := c.ShouldBindJSON(&env); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update payload"})
		return
	}

	ctx := c.Request.Context()

	switch {
	case env.Action == "notify_order" && h.notifier != nil:
		orderID, err := uuid.Parse(env.OrderID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order_id"})
			return
		}
		if err := h.notifier.OrderAccepted(ctx, env.TelegramID, orderID, env.Total); err != nil {
			logger.FromCtx(ctx).Warn("notify_order dispatch failed",
				zap.Int64("telegram_id", env.TelegramID),
				zap.Error(err),
			)
		}

	case env.UpdateID != 0 && h.bot != nil:
		h.bot.HandleUpdate(ctx, &env.Update)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
