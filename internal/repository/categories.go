package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/restopos/restopos/internal/domain"
)

func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (id, shop_id, name, created_at, updated_at)
	          VALUES ($1, $2, $3, NOW(), NOW())`

	if _, err := s.db.ExecContext(ctx, query, c.ID, c.ShopID, c.Name); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context, shopID uuid.UUID) ([]*domain.Category, error) {
	query := `SELECT id, shop_id, name, created_at, updated_at
	          FROM categories WHERE shop_id = $1 ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, shopID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.ShopID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return categories, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id uuid.UUID, name string) error {
	query := `UPDATE categories SET name = $2, updated_at = NOW() WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id, name)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("update category: %w", err)
	}
	return checkAffected(res, ErrCategoryNotFound)
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return checkAffected(res, ErrCategoryNotFound)
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT id, shop_id, name, created_at, updated_at FROM categories WHERE id = $1`

	var c domain.Category
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.ShopID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query category by id: %w", err)
	}
	return &c, nil
}

func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
