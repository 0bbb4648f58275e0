package order

import (
	"context"
	"database/sql"

	"pinecone-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	CreateOrder(ctx context.Context, o *Order, items []Item) error
	ListByProfile(ctx context.Context, profileID uuid.UUID, limit int) ([]*Order, error)
	GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// CreateOrder persists the order header and all its items in one
// transaction, so a mid-sequence failure can never leave a header without
// items.
func (r *repository) CreateOrder(ctx context.Context, o *Order, items []Item) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrder"),
		zap.String("order_id", o.ID.String()),
		zap.Int("item_count", len(items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, profile_id, total_amount,
			delivery_address, contact_phone, comment,
			status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		o.ID,
		o.ProfileID,
		o.TotalAmount,
		o.DeliveryAddress,
		o.ContactPhone,
		o.Comment,
		o.Status,
		o.CreatedAt,
	)
	if err != nil {
		log.Error("failed to insert order header", zap.Error(err))
		return err
	}

	for _, item := range items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1,$2,$3,$4)
		`,
			o.ID,
			item.ProductID,
			item.Quantity,
			item.Price,
		)
		if err != nil {
			log.Error("failed to insert order item",
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order", zap.Error(err))
		return err
	}

	log.Info("order persisted")
	return nil
}

func (r *repository) ListByProfile(ctx context.Context, profileID uuid.UUID, limit int) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListByProfile"),
		zap.String("profile_id", profileID.String()),
	)

	if limit <= 0 || limit > 50 {
		limit = 50
	}

	query := `
	SELECT id, profile_id, total_amount, delivery_address, contact_phone, comment, status, created_at
	FROM orders
	WHERE profile_id = $1
	ORDER BY created_at DESC
	LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, profileID, limit)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := make([]*Order, 0, limit)
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID,
			&o.ProfileID,
			&o.TotalAmount,
			&o.DeliveryAddress,
			&o.ContactPhone,
			&o.Comment,
			&o.Status,
			&o.CreatedAt,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		result = append(result, &o)
	}

	return result, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	query := `
	SELECT id, profile_id, total_amount, delivery_address, contact_phone, comment, status, created_at
	FROM orders
	WHERE id = $1
	`

	var o Order
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&o.ID,
		&o.ProfileID,
		&o.TotalAmount,
		&o.DeliveryAddress,
		&o.ContactPhone,
		&o.Comment,
		&o.Status,
		&o.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, quantity, price
		FROM order_items
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item Item
		if err := itemRows.Scan(&item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}

	return &o, itemRows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, orderID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
