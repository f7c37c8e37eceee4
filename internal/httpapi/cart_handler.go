package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/cart"
	"github.com/restopos/restopos/internal/domain"
)

// Composer is the slice of the cart service the handler needs.
type Composer interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddProduct(ctx context.Context, sessionID string, product cart.ProductRef) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) (*domain.Cart, error)
	RemoveLine(ctx context.Context, sessionID, lineID string) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type CartHandler struct {
	carts Composer
}

func NewCartHandler(carts Composer) *CartHandler {
	return &CartHandler{carts: carts}
}

// cartDTO is the wire shape the POS screen renders: lines plus the running
// total, recomputed on every response.
type cartDTO struct {
	Lines []domain.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
}

func toCartDTO(c *domain.Cart) cartDTO {
	lines := c.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return cartDTO{Lines: lines, Total: c.Total()}
}

func sessionID(r *http.Request) string {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		return ""
	}
	return claims.SessionID
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	if sid == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	c, err := h.carts.Get(r.Context(), sid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	respondData(w, http.StatusOK, toCartDTO(c))
}

type addProductRequestDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

func (h *CartHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	if sid == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req addProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ProductID == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "product_id and name are required")
		return
	}
	if req.Price.IsNegative() {
		respondError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	c, err := h.carts.AddProduct(r.Context(), sid, cart.ProductRef{
		ID:    req.ProductID,
		Name:  req.Name,
		Price: req.Price,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to add product")
		return
	}
	respondData(w, http.StatusCreated, toCartDTO(c))
}

type updateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	if sid == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	lineID := chi.URLParam(r, "lineID")
	c, err := h.carts.UpdateQuantity(r.Context(), sid, lineID, req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update quantity")
		return
	}
	respondData(w, http.StatusOK, toCartDTO(c))
}

func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	if sid == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	lineID := chi.URLParam(r, "lineID")
	c, err := h.carts.RemoveLine(r.Context(), sid, lineID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to remove item")
		return
	}
	respondData(w, http.StatusOK, toCartDTO(c))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	if sid == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.carts.Clear(r.Context(), sid); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}
	respondData(w, http.StatusOK, toCartDTO(&domain.Cart{SessionID: sid}))
}
