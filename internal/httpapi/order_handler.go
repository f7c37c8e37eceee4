package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/checkout"
	"github.com/restopos/restopos/internal/domain"
	"github.com/restopos/restopos/internal/repository"
	"github.com/restopos/restopos/internal/validation"
)

type CheckoutSubmitter interface {
	Submit(ctx context.Context, sessionID string, userID, shopID uuid.UUID, draft domain.CheckoutDraft) (*domain.Order, error)
}

type OrderStore interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, shopID uuid.UUID, f repository.OrderFilter) ([]*domain.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}

type OrderHandler struct {
	checkout CheckoutSubmitter
	orders   OrderStore
}

func NewOrderHandler(checkoutService CheckoutSubmitter, orders OrderStore) *OrderHandler {
	return &OrderHandler{checkout: checkoutService, orders: orders}
}

type createOrderRequestDTO struct {
	PaymentType string `json:"payment_type"`
	Note        string `json:"note"`
}

// CreateOrder is the checkout submit: it converts the session's cart into a
// persisted order and returns its id for the receipt view.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if result := validation.Checkout(validation.CheckoutInput{Note: req.Note, PaymentType: req.PaymentType}); !result.Valid() {
		respondValidation(w, result)
		return
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	shopID, err := uuid.Parse(claims.ShopID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	order, err := h.checkout.Submit(r.Context(), claims.SessionID, userID, shopID, domain.CheckoutDraft{
		Note:        req.Note,
		PaymentType: domain.PaymentType(req.PaymentType),
	})
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "Cart is empty")
	case errors.Is(err, checkout.ErrCheckoutInFlight):
		respondError(w, http.StatusConflict, "Checkout already in progress")
	case errors.Is(err, checkout.ErrUnknownPayment):
		respondError(w, http.StatusBadRequest, "Payment type must be CASH or CARD")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to create order")
	default:
		respondData(w, http.StatusCreated, order)
	}
}

// GetOrder backs the receipt view.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orders.GetOrderByID(r.Context(), id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load order")
		return
	}
	respondData(w, http.StatusOK, order)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	shopID, err := uuid.Parse(claims.ShopID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter, err := parseOrderFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, total, err := h.orders.ListOrders(r.Context(), shopID, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	respondPage(w, http.StatusOK, orders, filter.Page, filter.Limit, total)
}

type updateOrderStatusRequestDTO struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateOrderStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order status")
		return
	}

	if err := h.orders.UpdateOrderStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": string(status)})
}

func parseOrderFilter(r *http.Request) (repository.OrderFilter, error) {
	q := r.URL.Query()
	f := repository.OrderFilter{
		Page:  parseIntDefault(q.Get("page"), 1),
		Limit: parseIntDefault(q.Get("limit"), 20),
	}

	if s := q.Get("status"); s != "" {
		status, err := domain.ParseOrderStatus(s)
		if err != nil {
			return f, errors.New("invalid status filter")
		}
		f.Status = &status
	}
	if s := q.Get("payment_type"); s != "" {
		pt, err := domain.ParsePaymentType(s)
		if err != nil {
			return f, errors.New("invalid payment_type filter")
		}
		f.PaymentType = &pt
	}
	if s := q.Get("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return f, errors.New("invalid from filter")
		}
		f.From = &t
	}
	if s := q.Get("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return f, errors.New("invalid to filter")
		}
		f.To = &t
	}
	return f, nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
