package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	ShopID       uuid.UUID `json:"shop_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Shop struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Settings is per-shop configuration shown on receipts and dashboards.
type Settings struct {
	ShopID        uuid.UUID `json:"shop_id"`
	DisplayName   string    `json:"display_name"`
	CurrencyCode  string    `json:"currency_code"`
	ReceiptFooter string    `json:"receipt_footer"`
	UpdatedAt     time.Time `json:"updated_at"`
}
