package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/restopos/restopos/internal/domain"
)

// OrderFilter narrows the admin orders list.
type OrderFilter struct {
	Status      *domain.OrderStatus
	PaymentType *domain.PaymentType
	From        *time.Time
	To          *time.Time
	Page        int
	Limit       int
}

func (s *Store) CreateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	query := `INSERT INTO orders (id, shop_id, total_amount, payment_type, note, status, items, created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	_, insertErr := s.db.ExecContext(ctx, query,
		order.ID,
		order.ShopID,
		order.TotalAmount,
		order.PaymentType,
		order.Note,
		order.Status,
		itemsJSON,
		order.CreatedBy)
	if insertErr != nil {
		return fmt.Errorf("insert order: %w", insertErr)
	}
	return nil
}

func (s *Store) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT id, shop_id, total_amount, payment_type, note, status, items, created_by, created_at, updated_at
	          FROM orders WHERE id = $1`

	order, err := scanOrder(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return order, nil
}

func (s *Store) ListOrders(ctx context.Context, shopID uuid.UUID, f OrderFilter) ([]*domain.Order, int, error) {
	where := `WHERE shop_id = $1`
	args := []interface{}{shopID}

	if f.Status != nil {
		args = append(args, *f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.PaymentType != nil {
		args = append(args, *f.PaymentType)
		where += fmt.Sprintf(" AND payment_type = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += fmt.Sprintf(" AND created_at < $%d", len(args))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`SELECT id, shop_id, total_amount, payment_type, note, status, items, created_by, created_at, updated_at
	          FROM orders %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, total, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return checkAffected(res, ErrOrderNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var itemsJSON []byte
	if err := row.Scan(
		&order.ID,
		&order.ShopID,
		&order.TotalAmount,
		&order.PaymentType,
		&order.Note,
		&order.Status,
		&itemsJSON,
		&order.CreatedBy,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	return &order, nil
}
