package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/restopos/restopos/internal/domain"
)

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (id, shop_id, category_id, name, price, image_url, is_available, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.ShopID, p.CategoryID, p.Name, p.Price, p.ImageURL, p.IsAvailable)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// ListProducts applies the POS grid filters: name search, category,
// availability, pagination. The returned total counts all matches, not just
// the requested page.
func (s *Store) ListProducts(ctx context.Context, shopID uuid.UUID, f domain.ProductFilter) ([]*domain.Product, int, error) {
	where := `WHERE shop_id = $1`
	args := []interface{}{shopID}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if f.IsAvailable != nil {
		args = append(args, *f.IsAvailable)
		where += fmt.Sprintf(" AND is_available = $%d", len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM products ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
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
	query := fmt.Sprintf(`SELECT id, shop_id, category_id, name, price, image_url, is_available, created_at, updated_at
	          FROM products %s ORDER BY name LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.ShopID, &p.CategoryID, &p.Name, &p.Price,
			&p.ImageURL, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}
	return products, total, nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT id, shop_id, category_id, name, price, image_url, is_available, created_at, updated_at
	          FROM products WHERE id = $1`

	var p domain.Product
	err := s.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.ShopID, &p.CategoryID, &p.Name,
		&p.Price, &p.ImageURL, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return &p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET category_id = $2, name = $3, price = $4, image_url = $5, updated_at = NOW()
	          WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, p.ID, p.CategoryID, p.Name, p.Price, p.ImageURL)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return checkAffected(res, ErrProductNotFound)
}

func (s *Store) UpdateProductAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	query := `UPDATE products SET is_available = $2, updated_at = NOW() WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id, available)
	if err != nil {
		return fmt.Errorf("update product availability: %w", err)
	}
	return checkAffected(res, ErrProductNotFound)
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return checkAffected(res, ErrProductNotFound)
}
