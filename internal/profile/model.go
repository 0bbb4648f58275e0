package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the durable user record linking a Telegram identity or an
// authenticated web account to order history.
type Profile struct {
	ID         uuid.UUID
	TelegramID *int64
	UserID     *int
	Username   *string
	FirstName  *string
	LastName   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Platform string

const (
	PlatformTelegram Platform = "telegram"
	PlatformSession  Platform = "session"
)

// TelegramUser carries the identity fields the chat platform supplies.
type TelegramUser struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// Identity is the input of Resolve: either a Telegram identity supplied by
// the webhook or the embedding host, or the authenticated session carried in
// the request context.
type Identity struct {
	Platform Platform
	Telegram *TelegramUser
}
