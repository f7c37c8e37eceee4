package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrShopNotFound     = errors.New("shop not found")
	ErrDuplicateEmail   = errors.New("email already in use")
	ErrDuplicateName    = errors.New("name already in use")
)

// isUniqueViolation reports whether err is the Postgres unique constraint
// error code.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
