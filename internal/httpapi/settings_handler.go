package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/restopos/restopos/internal/domain"
)

type SettingsStore interface {
	GetSettings(ctx context.Context, shopID uuid.UUID) (*domain.Settings, error)
	UpsertSettings(ctx context.Context, st *domain.Settings) error
}

type SettingsHandler struct {
	settings SettingsStore
}

func NewSettingsHandler(settings SettingsStore) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopIDFromClaims(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	st, err := h.settings.GetSettings(r.Context(), shopID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	respondData(w, http.StatusOK, st)
}

type settingsRequestDTO struct {
	DisplayName   string `json:"display_name"`
	CurrencyCode  string `json:"currency_code"`
	ReceiptFooter string `json:"receipt_footer"`
}

func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopIDFromClaims(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req settingsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.CurrencyCode == "" {
		req.CurrencyCode = "USD"
	}

	st := &domain.Settings{
		ShopID:        shopID,
		DisplayName:   req.DisplayName,
		CurrencyCode:  req.CurrencyCode,
		ReceiptFooter: req.ReceiptFooter,
	}
	if err := h.settings.UpsertSettings(r.Context(), st); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}
	respondData(w, http.StatusOK, st)
}
