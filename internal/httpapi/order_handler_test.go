package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restopos/restopos/internal/checkout"
	"github.com/restopos/restopos/internal/domain"
	"github.com/restopos/restopos/internal/repository"
)

type checkoutMock struct {
	order *domain.Order
	err   error

	gotSession string
	gotDraft   domain.CheckoutDraft
}

func (c *checkoutMock) Submit(_ context.Context, sessionID string, _, _ uuid.UUID, draft domain.CheckoutDraft) (*domain.Order, error) {
	c.gotSession = sessionID
	c.gotDraft = draft
	if c.err != nil {
		return nil, c.err
	}
	return c.order, nil
}

type orderStoreMock struct {
	order *domain.Order
	err   error
}

func (o *orderStoreMock) GetOrderByID(context.Context, uuid.UUID) (*domain.Order, error) {
	return o.order, o.err
}

func (o *orderStoreMock) ListOrders(context.Context, uuid.UUID, repository.OrderFilter) ([]*domain.Order, int, error) {
	if o.err != nil {
		return nil, 0, o.err
	}
	return []*domain.Order{o.order}, 1, nil
}

func (o *orderStoreMock) UpdateOrderStatus(context.Context, uuid.UUID, domain.OrderStatus) error {
	return o.err
}

func sampleOrder() *domain.Order {
	note := "table 4"
	return &domain.Order{
		ID:          uuid.New(),
		ShopID:      uuid.New(),
		TotalAmount: decimal.RequireFromString("21.97"),
		PaymentType: domain.PaymentTypeCash,
		Note:        &note,
		Status:      domain.OrderStatusPending,
		Items: []domain.OrderItem{
			{ProductID: "p1", Name: "Burger", Quantity: 2, Price: decimal.RequireFromString("8.99")},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestCreateOrder_ReturnsOrderID(t *testing.T) {
	order := sampleOrder()
	submit := &checkoutMock{order: order}
	handler := NewOrderHandler(submit, &orderStoreMock{})

	body, _ := json.Marshal(map[string]string{"payment_type": "CASH", "note": "table 4"})
	rec := httptest.NewRecorder()
	handler.CreateOrder(rec, staffRequest(t, http.MethodPost, "/api/v1/orders", body))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "sess-1", submit.gotSession)
	assert.Equal(t, domain.PaymentTypeCash, submit.gotDraft.PaymentType)

	var resp struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, order.ID, resp.Data.ID)
}

func TestCreateOrder_ValidationFailure(t *testing.T) {
	handler := NewOrderHandler(&checkoutMock{}, &orderStoreMock{})

	body, _ := json.Marshal(map[string]string{"note": "no payment type"})
	rec := httptest.NewRecorder()
	handler.CreateOrder(rec, staffRequest(t, http.MethodPost, "/api/v1/orders", body))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	handler := NewOrderHandler(&checkoutMock{err: checkout.ErrEmptyCart}, &orderStoreMock{})

	body, _ := json.Marshal(map[string]string{"payment_type": "CASH"})
	rec := httptest.NewRecorder()
	handler.CreateOrder(rec, staffRequest(t, http.MethodPost, "/api/v1/orders", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder_InFlight(t *testing.T) {
	handler := NewOrderHandler(&checkoutMock{err: checkout.ErrCheckoutInFlight}, &orderStoreMock{})

	body, _ := json.Marshal(map[string]string{"payment_type": "CASH"})
	rec := httptest.NewRecorder()
	handler.CreateOrder(rec, staffRequest(t, http.MethodPost, "/api/v1/orders", body))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateOrder_BackendFailureSurfacesGenericMessage(t *testing.T) {
	handler := NewOrderHandler(&checkoutMock{err: errors.New("pq: connection refused")}, &orderStoreMock{})

	body, _ := json.Marshal(map[string]string{"payment_type": "CARD"})
	rec := httptest.NewRecorder()
	handler.CreateOrder(rec, staffRequest(t, http.MethodPost, "/api/v1/orders", body))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to create order", resp.Message)
}

func TestGetOrder_NotFound(t *testing.T) {
	handler := NewOrderHandler(&checkoutMock{}, &orderStoreMock{err: repository.ErrOrderNotFound})

	req := staffRequest(t, http.MethodGet, "/api/v1/orders/"+uuid.NewString(), nil)
	req = withURLParam(req, "id", uuid.NewString())

	rec := httptest.NewRecorder()
	handler.GetOrder(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrder_InvalidID(t *testing.T) {
	handler := NewOrderHandler(&checkoutMock{}, &orderStoreMock{})

	req := staffRequest(t, http.MethodGet, "/api/v1/orders/abc", nil)
	req = withURLParam(req, "id", "abc")

	rec := httptest.NewRecorder()
	handler.GetOrder(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrders_PaginatedEnvelope(t *testing.T) {
	handler := NewOrderHandler(&checkoutMock{}, &orderStoreMock{order: sampleOrder()})

	rec := httptest.NewRecorder()
	handler.ListOrders(rec, staffRequest(t, http.MethodGet, "/api/v1/orders?page=1&limit=20", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []json.RawMessage `json:"data"`
		Meta struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
}
