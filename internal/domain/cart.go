package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the staff user's in-progress order, keyed by their session.
// Lines keep insertion order; a product appears in at most one line.
type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartLine struct {
	LineID    string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Total sums unit price times quantity over all lines. Zero for an empty cart.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
