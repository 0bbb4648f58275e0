package telegram

import (
	"context"
	"fmt"

	"pinecone-be/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Notifier delivers order acceptance messages over the bot. It satisfies
// order.Notifier.
type Notifier struct {
	client *Client
}

func NewNotifier(client *Client) *Notifier {
	return &Notifier{client: client}
}

func (n *Notifier) OrderAccepted(ctx context.Context, chatID int64, orderID uuid.UUID, total decimal.Decimal) error {
	message := fmt.Sprintf(
		"✅ <b>Ваш заказ принят!</b>\n\n"+
			"📦 Номер заказа: #%s\n"+
			"💰 Сумма: %s ₽\n\n"+
			"Мы свяжемся с вами в ближайшее время для подтверждения доставки.\n\n"+
			"Спасибо за покупку! 🌲",
		utils.ShortID(orderID),
		total.String(),
	)

	return n.client.SendMessage(ctx, chatID, message, nil)
}
