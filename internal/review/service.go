package review

import (
	"context"
	"strings"
	"time"

	"pinecone-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	GetReviews(ctx context.Context, productID uuid.UUID) ([]*Review, error)
	GetSummary(ctx context.Context, productID uuid.UUID) (*Summary, error)
	AddReview(ctx context.Context, productID uuid.UUID, profileID *uuid.UUID, userName string, rating int, comment string) (*Review, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetReviews(ctx context.Context, productID uuid.UUID) ([]*Review, error) {
	reviews, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list reviews",
			zap.String("product_id", productID.String()),
			zap.Error(err),
		)
		return nil, ErrFailedListReviews
	}
	return reviews, nil
}

func (s *service) GetSummary(ctx context.Context, productID uuid.UUID) (*Summary, error) {
	return s.repo.SummaryByProduct(ctx, productID)
}

func (s *service) AddReview(
	ctx context.Context,
	productID uuid.UUID,
	profileID *uuid.UUID,
	userName string,
	rating int,
	comment string,
) (*Review, error) {

	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, ErrMissingComment
	}

	if strings.TrimSpace(userName) == "" {
		userName = "Anonymous"
	}

	rev := &Review{
		ID:        uuid.New(),
		ProductID: productID,
		ProfileID: profileID,
		UserName:  userName,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, ErrFailedCreateReview
	}

	return rev, nil
}
