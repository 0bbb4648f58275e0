package review

import (
	"context"
	"database/sql"

	"pinecone-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*Review, error)
	Create(ctx context.Context, r *Review) error
	SummaryByProduct(ctx context.Context, productID uuid.UUID) (*Summary, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*Review, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListByProduct"),
		zap.String("product_id", productID.String()),
	)

	query := `
	SELECT id, product_id, profile_id, user_name, rating, comment, created_at
	FROM reviews
	WHERE product_id = $1
	ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []*Review{}
	for rows.Next() {
		var rev Review
		if err := rows.Scan(
			&rev.ID,
			&rev.ProductID,
			&rev.ProfileID,
			&rev.UserName,
			&rev.Rating,
			&rev.Comment,
			&rev.CreatedAt,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		result = append(result, &rev)
	}

	return result, rows.Err()
}

func (r *repository) Create(ctx context.Context, rev *Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (id, product_id, profile_id, user_name, rating, comment, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		rev.ID,
		rev.ProductID,
		rev.ProfileID,
		rev.UserName,
		rev.Rating,
		rev.Comment,
		rev.CreatedAt,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert review",
			zap.String("product_id", rev.ProductID.String()),
			zap.Error(err),
		)
	}
	return err
}

func (r *repository) SummaryByProduct(ctx context.Context, productID uuid.UUID) (*Summary, error) {
	query := `
	SELECT COUNT(*), COALESCE(AVG(rating), 0)
	FROM reviews
	WHERE product_id = $1
	`

	s := Summary{ProductID: productID}
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&s.ReviewCount, &s.AverageRating)
	if err != nil {
		return nil, err
	}

	return &s, nil
}
