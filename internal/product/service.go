package product

import (
	"context"

	"pinecone-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines read access to the catalog.
type Service interface {
	GetProducts(ctx context.Context, opts ListOptions) ([]*Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	GetCategories(ctx context.Context) ([]string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProducts(ctx context.Context, opts ListOptions) ([]*Product, error) {
	products, err := s.repo.List(ctx, opts)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list products", zap.Error(err))
		return nil, ErrFailedListProducts
	}
	return products, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get product",
			zap.String("product_id", id.String()),
			zap.Error(err),
		)
		return nil, ErrFailedGetProduct
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *service) GetCategories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}
