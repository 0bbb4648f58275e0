package profile

import (
	"context"
	"database/sql"

	"pinecone-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	UpsertTelegram(ctx context.Context, tg TelegramUser) (uuid.UUID, error)
	UpsertUser(ctx context.Context, userID int, email string) (uuid.UUID, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// UpsertTelegram is the atomic insert-if-absent for the chat identity path.
// The unique index on telegram_id makes concurrent first resolutions of the
// same chat user converge on a single row.
func (r *repository) UpsertTelegram(ctx context.Context, tg TelegramUser) (uuid.UUID, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpsertTelegram"),
		zap.Int64("telegram_id", tg.ID),
	)

	query := `
	INSERT INTO profiles (telegram_id, username, first_name, last_name)
	VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''))
	ON CONFLICT (telegram_id) DO UPDATE SET
		username   = EXCLUDED.username,
		first_name = EXCLUDED.first_name,
		last_name  = EXCLUDED.last_name,
		updated_at = NOW()
	RETURNING id
	`

	var id uuid.UUID
	err := r.db.QueryRowContext(ctx, query,
		tg.ID, tg.Username, tg.FirstName, tg.LastName,
	).Scan(&id)
	if err != nil {
		log.Error("failed to upsert telegram profile", zap.Error(err))
		return uuid.Nil, err
	}

	return id, nil
}

// UpsertUser resolves a web account to its profile row, creating the row
// lazily on first checkout.
func (r *repository) UpsertUser(ctx context.Context, userID int, email string) (uuid.UUID, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpsertUser"),
		zap.Int("user_id", userID),
	)

	query := `
	INSERT INTO profiles (user_id, username)
	VALUES ($1, NULLIF($2, ''))
	ON CONFLICT (user_id) DO UPDATE SET
		updated_at = NOW()
	RETURNING id
	`

	var id uuid.UUID
	err := r.db.QueryRowContext(ctx, query, userID, email).Scan(&id)
	if err != nil {
		log.Error("failed to upsert user profile", zap.Error(err))
		return uuid.Nil, err
	}

	return id, nil
}

func (r *repository) GetByTelegramID(ctx context.Context, telegramID int64) (*Profile, error) {
	return r.getOne(ctx, `WHERE telegram_id = $1`, telegramID)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *repository) getOne(ctx context.Context, where string, arg any) (*Profile, error) {
	query := `
	SELECT id, telegram_id, user_id, username, first_name, last_name, created_at, updated_at
	FROM profiles
	` + where

	var p Profile
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID,
		&p.TelegramID,
		&p.UserID,
		&p.Username,
		&p.FirstName,
		&p.LastName,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}
