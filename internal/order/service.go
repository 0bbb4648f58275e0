package order

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"pinecone-be/internal/cart"
	"pinecone-be/internal/logger"
	"pinecone-be/internal/metrics"
	"pinecone-be/internal/profile"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Notifier is the best-effort side channel that tells a chat user their
// order was accepted. Implemented by the telegram package.
type Notifier interface {
	OrderAccepted(ctx context.Context, chatID int64, orderID uuid.UUID, total decimal.Decimal) error
}

type Service interface {
	Submit(ctx context.Context, cartKey string, identity profile.Identity, delivery DeliveryInfo) (uuid.UUID, error)
	OrdersByProfile(ctx context.Context, profileID uuid.UUID, limit int) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status) error
}

type service struct {
	carts    *cart.Store
	resolver profile.Resolver
	repo     Repository
	notifier Notifier

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewService(carts *cart.Store, resolver profile.Resolver, repo Repository, notifier Notifier) Service {
	return &service{
		carts:    carts,
		resolver: resolver,
		repo:     repo,
		notifier: notifier,
		inFlight: make(map[string]bool),
	}
}

// Submit runs the checkout chain: guard the cart, resolve the buyer's
// profile, persist header and items in one transaction, clear the cart and
// fire the acceptance notification. It is not idempotent; a retry after a
// failure creates a new order.
func (s *service) Submit(
	ctx context.Context,
	cartKey string,
	identity profile.Identity,
	delivery DeliveryInfo,
) (uuid.UUID, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Submit"),
		zap.String("platform", string(identity.Platform)),
	)

	// One outstanding submission per cart. Mirrors the client-side busy
	// flag: checkout stays disabled until the in-flight attempt finishes.
	if !s.acquire(cartKey) {
		return uuid.Nil, ErrSubmitInFlight
	}
	defer s.release(cartKey)

	// Pre-network guards: nothing below touches the database until the
	// cart and the form are known to be valid.
	items, err := s.carts.Items(ctx, cartKey)
	if err != nil {
		return uuid.Nil, err
	}
	if len(items) == 0 {
		return uuid.Nil, ErrEmptyCart
	}

	if strings.TrimSpace(delivery.Address) == "" {
		return uuid.Nil, ErrMissingAddress
	}
	if strings.TrimSpace(delivery.ContactPhone) == "" {
		return uuid.Nil, ErrMissingPhone
	}

	profileID, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		// Resolution failures surface unchanged; the cart is untouched.
		return uuid.Nil, err
	}

	total := decimal.Zero
	orderItems := make([]Item, 0, len(items))
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		orderItems = append(orderItems, Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	o := &Order{
		ID:              uuid.New(),
		ProfileID:       profileID,
		TotalAmount:     total,
		DeliveryAddress: delivery.Address,
		ContactPhone:    delivery.ContactPhone,
		Status:          StatusPending,
		CreatedAt:       time.Now(),
	}
	if comment := strings.TrimSpace(delivery.Comment); comment != "" {
		o.Comment = &comment
	}
	for i := range orderItems {
		orderItems[i].OrderID = o.ID
	}

	if err := s.repo.CreateOrder(ctx, o, orderItems); err != nil {
		log.Error("failed to persist order",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
		metrics.RecordOrderOperation("submit", false)
		return uuid.Nil, fmt.Errorf("%w: %v", ErrOrderPersistFailed, err)
	}

	// Clear only after the order is durable. A failure here leaves a stale
	// cart, not a lost order.
	if err := s.carts.Clear(ctx, cartKey); err != nil {
		log.Warn("order persisted but cart clear failed",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}

	metrics.RecordOrderOperation("submit", true)
	log.Info("order submitted",
		zap.String("order_id", o.ID.String()),
		zap.String("profile_id", profileID.String()),
		zap.String("total", total.String()),
	)

	// Fire-and-forget: only chat-path buyers have a recipient, and a
	// delivery failure never surfaces to the caller.
	if identity.Platform == profile.PlatformTelegram && identity.Telegram != nil {
		s.notify(ctx, identity.Telegram.ID, o.ID, total)
	}

	return o.ID, nil
}

func (s *service) notify(ctx context.Context, chatID int64, orderID uuid.UUID, total decimal.Decimal) {
	if s.notifier == nil {
		return
	}

	// The notification outlives the request; detach from its cancellation.
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := s.notifier.OrderAccepted(ctx, chatID, orderID, total); err != nil {
			metrics.RecordNotificationFailure()
			logger.FromCtx(ctx).Warn("order notification failed",
				zap.String("order_id", orderID.String()),
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}
	}()
}

func (s *service) acquire(cartKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[cartKey] {
		return false
	}
	s.inFlight[cartKey] = true
	return true
}

func (s *service) release(cartKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, cartKey)
}

func (s *service) OrdersByProfile(ctx context.Context, profileID uuid.UUID, limit int) ([]*Order, error) {
	orders, err := s.repo.ListByProfile(ctx, profileID, limit)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list orders",
			zap.String("profile_id", profileID.String()),
			zap.Error(err),
		)
		return nil, ErrFailedListOrders
	}
	return orders, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, orderID, status)
}
