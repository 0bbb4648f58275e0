package cart

import (
	"context"
	"sync"

	"pinecone-be/internal/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store is the cart state container owned by the top-level application
// wiring. Each cart key has a single logical writer; the mutex only guards
// the registry shared between sessions. Every mutation writes through to the
// repository so a cart survives a reload of the client.
type Store struct {
	mu    sync.Mutex
	repo  Repository
	carts map[string]*Cart
}

func NewStore(repo Repository) *Store {
	return &Store{
		repo:  repo,
		carts: make(map[string]*Cart),
	}
}

func (s *Store) get(ctx context.Context, cartKey string) (*Cart, error) {
	if c, ok := s.carts[cartKey]; ok {
		return c, nil
	}

	items, err := s.repo.Load(ctx, cartKey)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load cart",
			zap.String("cart_key", cartKey),
			zap.Error(err),
		)
		return nil, ErrFailedLoadCart
	}

	c := New(items...)
	s.carts[cartKey] = c
	return c, nil
}

func (s *Store) persist(ctx context.Context, cartKey string, c *Cart) error {
	if err := s.repo.Save(ctx, cartKey, c.Items()); err != nil {
		logger.FromCtx(ctx).Error("failed to persist cart",
			zap.String("cart_key", cartKey),
			zap.Error(err),
		)
		return ErrFailedSaveCart
	}
	return nil
}

func (s *Store) AddItem(ctx context.Context, cartKey string, item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(ctx, cartKey)
	if err != nil {
		return err
	}

	c.AddItem(item)
	return s.persist(ctx, cartKey, c)
}

func (s *Store) RemoveItem(ctx context.Context, cartKey string, productID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(ctx, cartKey)
	if err != nil {
		return err
	}

	c.RemoveItem(productID)
	return s.persist(ctx, cartKey, c)
}

func (s *Store) UpdateQuantity(ctx context.Context, cartKey string, productID uuid.UUID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(ctx, cartKey)
	if err != nil {
		return err
	}

	if err := c.UpdateQuantity(productID, quantity); err != nil {
		return err
	}
	return s.persist(ctx, cartKey, c)
}

func (s *Store) Clear(ctx context.Context, cartKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(ctx, cartKey)
	if err != nil {
		return err
	}

	c.Clear()
	return s.persist(ctx, cartKey, c)
}

func (s *Store) Items(ctx context.Context, cartKey string) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(ctx, cartKey)
	if err != nil {
		return nil, err
	}
	return c.Items(), nil
}

func (s *Store) TotalItems(ctx context.Context, cartKey string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(ctx, cartKey)
	if err != nil {
		return 0, err
	}
	return c.TotalItems(), nil
}

func (s *Store) TotalAmount(ctx context.Context, cartKey string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(ctx, cartKey)
	if err != nil {
		return decimal.Zero, err
	}
	return c.TotalAmount(), nil
}
