package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/restopos/restopos/internal/domain"
)

func (s *Store) CreateShop(ctx context.Context, shop *domain.Shop) error {
	query := `INSERT INTO shops (id, name, address, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, NOW(), NOW())`

	if _, err := s.db.ExecContext(ctx, query, shop.ID, shop.Name, shop.Address, shop.IsActive); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

func (s *Store) ListShops(ctx context.Context) ([]*domain.Shop, error) {
	query := `SELECT id, name, address, is_active, created_at, updated_at
	          FROM shops ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query shops: %w", err)
	}
	defer rows.Close()

	var shops []*domain.Shop
	for rows.Next() {
		var shop domain.Shop
		if err := rows.Scan(&shop.ID, &shop.Name, &shop.Address, &shop.IsActive,
			&shop.CreatedAt, &shop.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan shop row: %w", err)
		}
		shops = append(shops, &shop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return shops, nil
}

func (s *Store) GetShop(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	query := `SELECT id, name, address, is_active, created_at, updated_at FROM shops WHERE id = $1`

	var shop domain.Shop
	err := s.db.QueryRowContext(ctx, query, id).Scan(&shop.ID, &shop.Name, &shop.Address,
		&shop.IsActive, &shop.CreatedAt, &shop.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query shop by id: %w", err)
	}
	return &shop, nil
}

func (s *Store) UpdateShop(ctx context.Context, shop *domain.Shop) error {
	query := `UPDATE shops SET name = $2, address = $3, is_active = $4, updated_at = NOW() WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, shop.ID, shop.Name, shop.Address, shop.IsActive)
	if err != nil {
		return fmt.Errorf("update shop: %w", err)
	}
	return checkAffected(res, ErrShopNotFound)
}

func (s *Store) DeleteShop(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}
	return checkAffected(res, ErrShopNotFound)
}
