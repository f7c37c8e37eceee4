package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/restopos/restopos/internal/domain"
)

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, shop_id, name, email, password_hash, role, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`

	_, err := s.db.ExecContext(ctx, query, u.ID, u.ShopID, u.Name, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, shop_id, name, email, password_hash, role, created_at, updated_at
	          FROM users WHERE email = $1`

	var u domain.User
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.ShopID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT id, shop_id, name, email, password_hash, role, created_at, updated_at
	          FROM users WHERE id = $1`

	var u domain.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.ShopID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context, shopID uuid.UUID) ([]*domain.User, error) {
	query := `SELECT id, shop_id, name, email, password_hash, role, created_at, updated_at
	          FROM users WHERE shop_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, shopID)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.ShopID, &u.Name, &u.Email, &u.PasswordHash,
			&u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return users, nil
}

func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, name, email string, role domain.Role) error {
	query := `UPDATE users SET name = $2, email = $3, role = $4, updated_at = NOW() WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id, name, email, role)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	return checkAffected(res, ErrUserNotFound)
}

func (s *Store) UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return checkAffected(res, ErrUserNotFound)
}

func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return checkAffected(res, ErrUserNotFound)
}
