package review

import (
	"time"

	"github.com/google/uuid"
)

// Review is a buyer's rating of a product. ProfileID is nil for reviews
// imported before profiles existed; UserName is denormalized so the list
// renders without a join.
type Review struct {
	ID        uuid.UUID  `json:"id"`
	ProductID uuid.UUID  `json:"product_id"`
	ProfileID *uuid.UUID `json:"profile_id,omitempty"`
	UserName  string     `json:"user_name"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"created_at"`
}

// Summary aggregates a product's reviews for the catalog card.
type Summary struct {
	ProductID     uuid.UUID `json:"product_id"`
	ReviewCount   int       `json:"review_count"`
	AverageRating float64   `json:"average_rating"`
}
