package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/restopos/restopos/internal/domain"
	"github.com/restopos/restopos/internal/repository"
)

type ShopStore interface {
	CreateShop(ctx context.Context, shop *domain.Shop) error
	ListShops(ctx context.Context) ([]*domain.Shop, error)
	GetShop(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
	UpdateShop(ctx context.Context, shop *domain.Shop) error
	DeleteShop(ctx context.Context, id uuid.UUID) error
}

// ShopHandler is the super admin's tenant management surface.
type ShopHandler struct {
	shops ShopStore
}

func NewShopHandler(shops ShopStore) *ShopHandler {
	return &ShopHandler{shops: shops}
}

type shopRequestDTO struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	IsActive *bool  `json:"is_active"`
}

func (h *ShopHandler) ListShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.shops.ListShops(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load shops")
		return
	}
	if shops == nil {
		shops = []*domain.Shop{}
	}
	respondData(w, http.StatusOK, shops)
}

func (h *ShopHandler) CreateShop(w http.ResponseWriter, r *http.Request) {
	var req shopRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Shop name is required")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	shop := &domain.Shop{
		ID:       uuid.New(),
		Name:     req.Name,
		Address:  req.Address,
		IsActive: active,
	}
	if err := h.shops.CreateShop(r.Context(), shop); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			respondError(w, http.StatusConflict, "Shop already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create shop")
		return
	}
	respondData(w, http.StatusCreated, shop)
}

func (h *ShopHandler) UpdateShop(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid shop id")
		return
	}

	var req shopRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Shop name is required")
		return
	}

	shop, err := h.shops.GetShop(r.Context(), id)
	if errors.Is(err, repository.ErrShopNotFound) {
		respondError(w, http.StatusNotFound, "Shop not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update shop")
		return
	}

	shop.Name = req.Name
	shop.Address = req.Address
	if req.IsActive != nil {
		shop.IsActive = *req.IsActive
	}
	if err := h.shops.UpdateShop(r.Context(), shop); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update shop")
		return
	}
	respondData(w, http.StatusOK, shop)
}

func (h *ShopHandler) DeleteShop(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid shop id")
		return
	}

	if err := h.shops.DeleteShop(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			respondError(w, http.StatusNotFound, "Shop not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete shop")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "deleted"})
}
