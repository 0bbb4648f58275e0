package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is the header record of one checkout transaction.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	ProfileID       uuid.UUID       `json:"profile_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DeliveryAddress string          `json:"delivery_address"`
	ContactPhone    string          `json:"contact_phone"`
	Comment         *string         `json:"comment,omitempty"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []Item          `json:"items,omitempty"`
}

// Item is one order line. Price is a snapshot taken at order time, immutable
// once written.
type Item struct {
	OrderID   uuid.UUID       `json:"order_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type DeliveryInfo struct {
	Address      string `json:"delivery_address"`
	ContactPhone string `json:"contact_phone"`
	Comment      string `json:"comment"`
}
