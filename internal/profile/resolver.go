package profile

import (
	"context"
	"fmt"

	"pinecone-be/internal/logger"
	"pinecone-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resolver turns an Identity into exactly one profile id, creating the
// profile lazily on first resolution.
type Resolver interface {
	Resolve(ctx context.Context, identity Identity) (uuid.UUID, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*Profile, error)
}

type resolver struct {
	repo Repository
}

func NewResolver(repo Repository) Resolver {
	return &resolver{repo: repo}
}

func (s *resolver) Resolve(ctx context.Context, identity Identity) (uuid.UUID, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Resolve"),
		zap.String("platform", string(identity.Platform)),
	)

	switch identity.Platform {
	case PlatformTelegram:
		if identity.Telegram == nil || identity.Telegram.ID == 0 {
			return uuid.Nil, ErrUnauthenticated
		}

		id, err := s.repo.UpsertTelegram(ctx, *identity.Telegram)
		if err != nil {
			log.Error("telegram resolution failed", zap.Error(err))
			return uuid.Nil, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
		}
		return id, nil

	case PlatformSession:
		userID, ok := utils.GetUserIDFromContext(ctx)
		if !ok {
			return uuid.Nil, ErrUnauthenticated
		}

		id, err := s.repo.UpsertUser(ctx, userID, utils.GetUserEmailFromContext(ctx))
		if err != nil {
			log.Error("session resolution failed",
				zap.Int("user_id", userID),
				zap.Error(err),
			)
			return uuid.Nil, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
		}
		return id, nil

	default:
		return uuid.Nil, fmt.Errorf("%w: unknown platform %q", ErrResolutionFailed, identity.Platform)
	}
}

func (s *resolver) GetByTelegramID(ctx context.Context, telegramID int64) (*Profile, error) {
	p, err := s.repo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}
