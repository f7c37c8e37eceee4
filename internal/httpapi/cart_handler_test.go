package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/cart"
	"github.com/restopos/restopos/internal/domain"
)

type composerMock struct {
	cart *domain.Cart
	err  error
}

func (c *composerMock) Get(context.Context, string) (*domain.Cart, error) {
	return c.cart, c.err
}

func (c *composerMock) AddProduct(context.Context, string, cart.ProductRef) (*domain.Cart, error) {
	return c.cart, c.err
}

func (c *composerMock) UpdateQuantity(context.Context, string, string, int) (*domain.Cart, error) {
	return c.cart, c.err
}

func (c *composerMock) RemoveLine(context.Context, string, string) (*domain.Cart, error) {
	return c.cart, c.err
}

func (c *composerMock) Clear(context.Context, string) error {
	return c.err
}

func staffRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	claims := &auth.Claims{Role: "STAFF", ShopID: uuid.NewString(), SessionID: "sess-1"}
	claims.Subject = uuid.NewString()
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func staffCart() *domain.Cart {
	return &domain.Cart{
		SessionID: "sess-1",
		Lines: []domain.CartLine{
			{LineID: "l1", ProductID: "p1", Name: "Burger", UnitPrice: decimal.RequireFromString("8.99"), Quantity: 2},
		},
	}
}

func TestGetCart_ReturnsLinesAndTotal(t *testing.T) {
	handler := NewCartHandler(&composerMock{cart: staffCart()})

	rec := httptest.NewRecorder()
	handler.GetCart(rec, staffRequest(t, http.MethodGet, "/api/v1/cart", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Lines []domain.CartLine `json:"lines"`
			Total decimal.Decimal   `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Lines, 1)
	assert.True(t, resp.Data.Total.Equal(decimal.RequireFromString("17.98")))
}

func TestGetCart_Unauthenticated(t *testing.T) {
	handler := NewCartHandler(&composerMock{cart: staffCart()})

	rec := httptest.NewRecorder()
	handler.GetCart(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddProduct_Created(t *testing.T) {
	handler := NewCartHandler(&composerMock{cart: staffCart()})

	body, _ := json.Marshal(map[string]interface{}{
		"product_id": "p1",
		"name":       "Burger",
		"price":      "8.99",
	})
	rec := httptest.NewRecorder()
	handler.AddProduct(rec, staffRequest(t, http.MethodPost, "/api/v1/cart/items", body))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAddProduct_RejectsMissingFields(t *testing.T) {
	handler := NewCartHandler(&composerMock{cart: staffCart()})

	body, _ := json.Marshal(map[string]interface{}{"price": "8.99"})
	rec := httptest.NewRecorder()
	handler.AddProduct(rec, staffRequest(t, http.MethodPost, "/api/v1/cart/items", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddProduct_RejectsNegativePrice(t *testing.T) {
	handler := NewCartHandler(&composerMock{cart: staffCart()})

	body, _ := json.Marshal(map[string]interface{}{
		"product_id": "p1",
		"name":       "Burger",
		"price":      "-1",
	})
	rec := httptest.NewRecorder()
	handler.AddProduct(rec, staffRequest(t, http.MethodPost, "/api/v1/cart/items", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateQuantity_StorageError(t *testing.T) {
	handler := NewCartHandler(&composerMock{err: errors.New("mongo down")})

	body, _ := json.Marshal(map[string]int{"quantity": 3})
	req := withURLParam(staffRequest(t, http.MethodPatch, "/api/v1/cart/items/l1", body), "lineID", "l1")

	rec := httptest.NewRecorder()
	handler.UpdateQuantity(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestClearCart_ReturnsEmptyCart(t *testing.T) {
	handler := NewCartHandler(&composerMock{})

	rec := httptest.NewRecorder()
	handler.ClearCart(rec, staffRequest(t, http.MethodDelete, "/api/v1/cart", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Lines []domain.CartLine `json:"lines"`
			Total decimal.Decimal   `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Lines)
	assert.True(t, resp.Data.Total.IsZero())
}
