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
	"github.com/restopos/restopos/internal/validation"
)

type CategoryStore interface {
	CreateCategory(ctx context.Context, c *domain.Category) error
	ListCategories(ctx context.Context, shopID uuid.UUID) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type CategoryHandler struct {
	categories CategoryStore
}

func NewCategoryHandler(categories CategoryStore) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type categoryRequestDTO struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopIDFromClaims(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	categories, err := h.categories.ListCategories(r.Context(), shopID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load categories")
		return
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	respondData(w, http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopIDFromClaims(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req categoryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if result := validation.Category(req.Name); !result.Valid() {
		respondValidation(w, result)
		return
	}

	category := &domain.Category{
		ID:     uuid.New(),
		ShopID: shopID,
		Name:   req.Name,
	}
	if err := h.categories.CreateCategory(r.Context(), category); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			respondError(w, http.StatusConflict, "Category already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}
	respondData(w, http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if result := validation.Category(req.Name); !result.Valid() {
		respondValidation(w, result)
		return
	}

	if err := h.categories.UpdateCategory(r.Context(), id, req.Name); err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			respondError(w, http.StatusNotFound, "Category not found")
		case errors.Is(err, repository.ErrDuplicateName):
			respondError(w, http.StatusConflict, "Category already exists")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to update category")
		}
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.categories.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			respondError(w, http.StatusNotFound, "Category not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "deleted"})
}
