package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

type PaymentType string

const (
	PaymentTypeCash PaymentType = "CASH"
	PaymentTypeCard PaymentType = "CARD"
)

func ParsePaymentType(s string) (PaymentType, error) {
	switch PaymentType(s) {
	case PaymentTypeCash, PaymentTypeCard:
		return PaymentType(s), nil
	}
	return "", fmt.Errorf("unknown payment type %q", s)
}

type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Order struct {
	ID          uuid.UUID       `json:"id"`
	ShopID      uuid.UUID       `json:"shop_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaymentType PaymentType     `json:"payment_type"`
	Note        *string         `json:"note"`
	Status      OrderStatus     `json:"status"`
	Items       []OrderItem     `json:"order_items"`
	CreatedBy   uuid.UUID       `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CheckoutDraft is what the checkout dialog collects before submit.
type CheckoutDraft struct {
	Note        string
	PaymentType PaymentType
}
