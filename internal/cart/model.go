package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one line of a cart. Price and name are snapshots taken when the
// product was first added, not live references to the catalog.
type Item struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
}
