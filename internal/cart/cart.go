package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart holds an insertion-ordered sequence of items with at most one item
// per product. It has a single logical writer (one user session) and is not
// safe for concurrent use; Store serializes access across sessions.
type Cart struct {
	items []Item
}

func New(items ...Item) *Cart {
	c := &Cart{items: make([]Item, len(items))}
	copy(c.items, items)
	return c
}

// AddItem increments the quantity when the product is already present
// (keeping the first-seen price and name) and appends a new entry with
// quantity 1 otherwise.
func (c *Cart) AddItem(item Item) {
	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity++
			return
		}
	}

	item.Quantity = 1
	c.items = append(c.items, item)
}

// RemoveItem drops the entry for the product. Removing an absent product is
// a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity of an existing entry. Quantities below 1
// are rejected; deletion goes through RemoveItem.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
			return nil
		}
	}

	return ErrItemNotFound
}

func (c *Cart) Clear() {
	c.items = c.items[:0]
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Items returns a copy of the entries in insertion order.
func (c *Cart) Items() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

// TotalItems is the sum of quantities across all entries.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalAmount is Σ(price × quantity). No rounding is applied here; display
// formatting is a presentation concern.
func (c *Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
