package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	ShopID    uuid.UUID `json:"shop_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID          uuid.UUID       `json:"id"`
	ShopID      uuid.UUID       `json:"shop_id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductFilter mirrors the query parameters the POS product grid sends.
type ProductFilter struct {
	Search      string
	CategoryID  *uuid.UUID
	IsAvailable *bool
	Page        int
	Limit       int
}
