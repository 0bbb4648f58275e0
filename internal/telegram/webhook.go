package telegram

import (
	"context"
	"fmt"
	"strings"

	"pinecone-be/internal/logger"
	"pinecone-be/internal/order"
	"pinecone-be/internal/product"
	"pinecone-be/internal/profile"
	"pinecone-be/internal/utils"

	"go.uber.org/zap"
)

const chatListLimit = 5

// Bot dispatches incoming webhook updates to command handlers. Every
// handler answers over the same client the notifier uses; a reply failure
// is logged and swallowed so Telegram does not retry the update forever.
type Bot struct {
	client    *Client
	products  product.Service
	orders    order.Service
	resolver  profile.Resolver
	webAppURL string
}

func NewBot(
	client *Client,
	products product.Service,
	orders order.Service,
	resolver profile.Resolver,
	webAppURL string,
) *Bot {
	return &Bot{
		client:    client,
		products:  products,
		orders:    orders,
		resolver:  resolver,
		webAppURL: webAppURL,
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, upd *Update) {
	log := logger.FromCtx(ctx).With(zap.Int64("update_id", upd.UpdateID))

	var err error
	switch {
	case upd.Message != nil && upd.Message.From != nil:
		err = b.handleCommand(ctx, upd.Message)
	case upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil:
		err = b.handleCallback(ctx, upd.CallbackQuery)
	default:
		return
	}

	if err != nil {
		log.Warn("failed to handle telegram update", zap.Error(err))
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *Message) error {
	switch strings.TrimSpace(msg.Text) {
	case "/start":
		return b.handleStart(ctx, msg.Chat.ID, msg.From)
	case "/catalog":
		return b.handleCatalog(ctx, msg.Chat.ID)
	case "/orders":
		return b.handleOrders(ctx, msg.Chat.ID, msg.From.ID)
	case "/help":
		return b.handleHelp(ctx, msg.Chat.ID)
	default:
		return nil
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *CallbackQuery) error {
	switch cq.Data {
	case "catalog":
		return b.handleCatalog(ctx, cq.Message.Chat.ID)
	case "orders":
		return b.handleOrders(ctx, cq.Message.Chat.ID, cq.From.ID)
	default:
		return nil
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64, from *User) error {
	identity := profile.Identity{
		Platform: profile.PlatformTelegram,
		Telegram: &profile.TelegramUser{
			ID:        from.ID,
			Username:  from.Username,
			FirstName: from.FirstName,
			LastName:  from.LastName,
		},
	}
	if _, err := b.resolver.Resolve(ctx, identity); err != nil {
		// The welcome still goes out; the profile gets created on the
		// next interaction.
		logger.FromCtx(ctx).Warn("failed to upsert profile on /start",
			zap.Int64("telegram_id", from.ID),
			zap.Error(err),
		)
	}

	message := "🌲 <b>Добро пожаловать в \"Шишки у Никитки\"!</b> 🌲\n\n" +
		"Мы предлагаем качественные еловые и кедровые шишки с доставкой по всей России.\n\n" +
		"🛍 <b>Что вы можете сделать:</b>\n" +
		"/catalog - Посмотреть каталог товаров\n" +
		"/orders - Мои заказы\n" +
		"/help - Помощь\n\n" +
		"Или откройте наш магазин через кнопку ниже! 👇"

	keyboard := &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{{Text: "🛒 Открыть магазин", WebApp: &WebAppInfo{URL: b.webAppURL}}},
			{{Text: "📦 Каталог", CallbackData: "catalog"}},
			{{Text: "📋 Мои заказы", CallbackData: "orders"}},
		},
	}

	return b.client.SendMessage(ctx, chatID, message, keyboard)
}

func (b *Bot) handleCatalog(ctx context.Context, chatID int64) error {
	products, err := b.products.GetProducts(ctx, product.ListOptions{Limit: chatListLimit})
	if err != nil || len(products) == 0 {
		return b.client.SendMessage(ctx, chatID, "❌ Не удалось загрузить каталог", nil)
	}

	var sb strings.Builder
	sb.WriteString("🌲 <b>Наш ассортимент:</b>\n\n")
	for i, p := range products {
		fmt.Fprintf(&sb, "%d. <b>%s</b>\n", i+1, p.Name)
		fmt.Fprintf(&sb, "   💰 %s ₽\n", p.Price.String())
		fmt.Fprintf(&sb, "   📦 В наличии: %d шт.\n\n", p.Stock)
	}
	sb.WriteString("\n🛒 Откройте магазин для оформления заказа!")

	keyboard := &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{{Text: "🛒 Открыть магазин", WebApp: &WebAppInfo{URL: b.webAppURL}}},
		},
	}

	return b.client.SendMessage(ctx, chatID, sb.String(), keyboard)
}

func (b *Bot) handleOrders(ctx context.Context, chatID int64, telegramID int64) error {
	prof, err := b.resolver.GetByTelegramID(ctx, telegramID)
	if err != nil || prof == nil {
		return b.client.SendMessage(ctx, chatID, "❌ Профиль не найден", nil)
	}

	orders, err := b.orders.OrdersByProfile(ctx, prof.ID, chatListLimit)
	if err != nil || len(orders) == 0 {
		return b.client.SendMessage(ctx, chatID, "📦 У вас пока нет заказов", nil)
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Ваши заказы:</b>\n\n")
	for i, o := range orders {
		fmt.Fprintf(&sb, "%d. Заказ #%s\n", i+1, utils.ShortID(o.ID))
		fmt.Fprintf(&sb, "   %s Статус: %s\n", statusEmoji(o.Status), o.Status)
		fmt.Fprintf(&sb, "   💰 Сумма: %s ₽\n", o.TotalAmount.String())
		fmt.Fprintf(&sb, "   📅 Дата: %s\n\n", o.CreatedAt.Format("02.01.2006"))
	}

	return b.client.SendMessage(ctx, chatID, sb.String(), nil)
}

func (b *Bot) handleHelp(ctx context.Context, chatID int64) error {
	return b.client.SendMessage(ctx, chatID,
		"💡 <b>Команды бота:</b>\n\n"+
			"/start - Начать работу\n"+
			"/catalog - Каталог товаров\n"+
			"/orders - Мои заказы\n"+
			"/help - Помощь",
		nil,
	)
}

func statusEmoji(s order.Status) string {
	switch s {
	case order.StatusPending:
		return "⏳"
	case order.StatusConfirmed:
		return "✅"
	case order.StatusDelivered:
		return "📦"
	default:
		return "❌"
	}
}
