package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/restopos/restopos/internal/domain"
)

// GetSettings returns defaults when the shop has never saved settings.
func (s *Store) GetSettings(ctx context.Context, shopID uuid.UUID) (*domain.Settings, error) {
	query := `SELECT shop_id, display_name, currency_code, receipt_footer, updated_at
	          FROM settings WHERE shop_id = $1`

	var st domain.Settings
	err := s.db.QueryRowContext(ctx, query, shopID).Scan(
		&st.ShopID, &st.DisplayName, &st.CurrencyCode, &st.ReceiptFooter, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.Settings{ShopID: shopID, CurrencyCode: "USD"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	return &st, nil
}

func (s *Store) UpsertSettings(ctx context.Context, st *domain.Settings) error {
	query := `INSERT INTO settings (shop_id, display_name, currency_code, receipt_footer, updated_at)
	          VALUES ($1, $2, $3, $4, NOW())
	          ON CONFLICT (shop_id) DO UPDATE
	          SET display_name = $2, currency_code = $3, receipt_footer = $4, updated_at = NOW()`

	if _, err := s.db.ExecContext(ctx, query, st.ShopID, st.DisplayName, st.CurrencyCode, st.ReceiptFooter); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
