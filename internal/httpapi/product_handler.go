package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/domain"
	"github.com/restopos/restopos/internal/repository"
	"github.com/restopos/restopos/internal/validation"
)

type ProductStore interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	ListProducts(ctx context.Context, shopID uuid.UUID, f domain.ProductFilter) ([]*domain.Product, int, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	UpdateProduct(ctx context.Context, p *domain.Product) error
	UpdateProductAvailability(ctx context.Context, id uuid.UUID, available bool) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type ProductHandler struct {
	products ProductStore
}

func NewProductHandler(products ProductStore) *ProductHandler {
	return &ProductHandler{products: products}
}

type productRequestDTO struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CategoryID string          `json:"category_id"`
	ImageURL   string          `json:"image_url"`
}

func shopIDFromClaims(r *http.Request) (uuid.UUID, bool) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		return uuid.Nil, false
	}
	shopID, err := uuid.Parse(claims.ShopID)
	if err != nil {
		return uuid.Nil, false
	}
	return shopID, true
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopIDFromClaims(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	filter := domain.ProductFilter{
		Search: q.Get("search"),
		Page:   parseIntDefault(q.Get("page"), 1),
		Limit:  parseIntDefault(q.Get("limit"), 20),
	}
	if s := q.Get("category_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid category_id filter")
			return
		}
		filter.CategoryID = &id
	}
	if s := q.Get("is_available"); s != "" {
		available := s == "true"
		filter.IsAvailable = &available
	}

	products, total, err := h.products.ListProducts(r.Context(), shopID, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load products")
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}
	respondPage(w, http.StatusOK, products, filter.Page, filter.Limit, total)
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopIDFromClaims(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req productRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if result := validation.Product(validation.ProductInput{
		Name:       req.Name,
		Price:      req.Price,
		CategoryID: req.CategoryID,
	}); !result.Valid() {
		respondValidation(w, result)
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category_id")
		return
	}

	product := &domain.Product{
		ID:          uuid.New(),
		ShopID:      shopID,
		CategoryID:  categoryID,
		Name:        req.Name,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsAvailable: true,
	}
	if err := h.products.CreateProduct(r.Context(), product); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	respondData(w, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req productRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if result := validation.Product(validation.ProductInput{
		Name:       req.Name,
		Price:      req.Price,
		CategoryID: req.CategoryID,
	}); !result.Valid() {
		respondValidation(w, result)
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category_id")
		return
	}

	product := &domain.Product{
		ID:         id,
		CategoryID: categoryID,
		Name:       req.Name,
		Price:      req.Price,
		ImageURL:   req.ImageURL,
	}
	if err := h.products.UpdateProduct(r.Context(), product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	respondData(w, http.StatusOK, product)
}

type availabilityRequestDTO struct {
	IsAvailable bool `json:"is_available"`
}

func (h *ProductHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req availabilityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.products.UpdateProductAvailability(r.Context(), id, req.IsAvailable); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	respondData(w, http.StatusOK, map[string]bool{"is_available": req.IsAvailable})
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "deleted"})
}
