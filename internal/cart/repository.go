package cart

import (
	"context"
	"database/sql"

	"pinecone-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Load(ctx context.Context, cartKey string) ([]Item, error)
	Save(ctx context.Context, cartKey string, items []Item) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Load(ctx context.Context, cartKey string) ([]Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Load"),
		zap.String("cart_key", cartKey),
	)

	query := `
	SELECT product_id, name, price, image_url, quantity
	FROM cart_items
	WHERE cart_key = $1
	ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, cartKey)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ProductID,
			&item.Name,
			&item.Price,
			&item.ImageURL,
			&item.Quantity,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Save replaces the persisted cart with the given items in one transaction,
// keeping insertion order through the position column.
func (r *repository) Save(ctx context.Context, cartKey string, items []Item) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Save"),
		zap.String("cart_key", cartKey),
		zap.Int("item_count", len(items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_key = $1`, cartKey,
	); err != nil {
		log.Error("failed to clear persisted cart", zap.Error(err))
		return err
	}

	for i, item := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items (cart_key, position, product_id, name, price, image_url, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			cartKey,
			i,
			item.ProductID,
			item.Name,
			item.Price,
			item.ImageURL,
			item.Quantity,
		); err != nil {
			log.Error("failed to insert cart item",
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err),
			)
			return err
		}
	}

	return tx.Commit()
}
