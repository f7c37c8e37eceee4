package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restopos/restopos/internal/domain"
)

type mockCarts struct {
	m       sync.Mutex
	cart    *domain.Cart
	getErr  error
	cleared bool
	block   chan struct{} // when set, Get blocks until closed
}

func (m *mockCarts) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	if m.block != nil {
		<-m.block
	}
	m.m.Lock()
	defer m.m.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.cart == nil {
		return &domain.Cart{SessionID: sessionID}, nil
	}
	return m.cart, nil
}

func (m *mockCarts) Clear(_ context.Context, _ string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cleared = true
	m.cart = nil
	return nil
}

type mockOrders struct {
	m       sync.Mutex
	created []*domain.Order
	err     error
}

func (m *mockOrders) CreateOrder(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, order)
	return nil
}

type mockPublisher struct {
	m         sync.Mutex
	published []*domain.Order
	err       error
}

func (m *mockPublisher) OrderCreated(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, order)
	return nil
}

func fullCart() *domain.Cart {
	return &domain.Cart{
		SessionID: "sid",
		Lines: []domain.CartLine{
			{LineID: "l1", ProductID: "p1", Name: "Burger", UnitPrice: decimal.RequireFromString("8.99"), Quantity: 2},
			{LineID: "l2", ProductID: "p2", Name: "Fries", UnitPrice: decimal.RequireFromString("3.99"), Quantity: 1},
		},
	}
}

func draft() domain.CheckoutDraft {
	return domain.CheckoutDraft{Note: "no onions", PaymentType: domain.PaymentTypeCash}
}

func TestSubmit_CreatesOrderAndClearsCart(t *testing.T) {
	carts := &mockCarts{cart: fullCart()}
	orders := &mockOrders{}
	publisher := &mockPublisher{}
	svc := NewService(carts, orders, publisher)

	order, err := svc.Submit(context.Background(), "sid", uuid.New(), uuid.New(), draft())
	require.NoError(t, err)

	require.Len(t, orders.created, 1)
	assert.Equal(t, order.ID, orders.created[0].ID)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("21.97")), "got total %s", order.TotalAmount)
	assert.Equal(t, domain.PaymentTypeCash, order.PaymentType)
	require.NotNil(t, order.Note)
	assert.Equal(t, "no onions", *order.Note)
	assert.Equal(t, domain.OrderStatusPending, order.Status)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "p1", order.Items[0].ProductID)
	assert.Equal(t, 2, order.Items[0].Quantity)

	assert.True(t, carts.cleared)
	require.Len(t, publisher.published, 1)
}

func TestSubmit_EmptyNoteIsNull(t *testing.T) {
	carts := &mockCarts{cart: fullCart()}
	svc := NewService(carts, &mockOrders{}, &mockPublisher{})

	order, err := svc.Submit(context.Background(), "sid", uuid.New(), uuid.New(),
		domain.CheckoutDraft{PaymentType: domain.PaymentTypeCard})
	require.NoError(t, err)
	assert.Nil(t, order.Note)
}

func TestSubmit_EmptyCart(t *testing.T) {
	carts := &mockCarts{}
	orders := &mockOrders{}
	svc := NewService(carts, orders, &mockPublisher{})

	_, err := svc.Submit(context.Background(), "sid", uuid.New(), uuid.New(), draft())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, orders.created)
}

func TestSubmit_UnknownPaymentType(t *testing.T) {
	svc := NewService(&mockCarts{cart: fullCart()}, &mockOrders{}, &mockPublisher{})

	_, err := svc.Submit(context.Background(), "sid", uuid.New(), uuid.New(),
		domain.CheckoutDraft{PaymentType: "BARTER"})
	assert.ErrorIs(t, err, ErrUnknownPayment)
}

func TestSubmit_FailureLeavesCartUntouched(t *testing.T) {
	carts := &mockCarts{cart: fullCart()}
	orders := &mockOrders{err: errors.New("db down")}
	publisher := &mockPublisher{}
	svc := NewService(carts, orders, publisher)

	_, err := svc.Submit(context.Background(), "sid", uuid.New(), uuid.New(), draft())
	require.Error(t, err)

	assert.False(t, carts.cleared)
	require.NotNil(t, carts.cart)
	assert.Len(t, carts.cart.Lines, 2)
	assert.Empty(t, publisher.published)
}

func TestSubmit_PublishFailureDoesNotFailCheckout(t *testing.T) {
	carts := &mockCarts{cart: fullCart()}
	svc := NewService(carts, &mockOrders{}, &mockPublisher{err: errors.New("broker down")})

	order, err := svc.Submit(context.Background(), "sid", uuid.New(), uuid.New(), draft())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.True(t, carts.cleared)
}

func TestSubmit_RejectsConcurrentSubmitForSameSession(t *testing.T) {
	block := make(chan struct{})
	carts := &mockCarts{cart: fullCart(), block: block}
	svc := NewService(carts, &mockOrders{}, &mockPublisher{})

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), "sid", uuid.New(), uuid.New(), draft())
		firstDone <- err
	}()

	// Wait until the first submit holds the busy flag.
	require.Eventually(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		_, busy := svc.inFlight["sid"]
		return busy
	}, time.Second, time.Millisecond)

	_, err := svc.Submit(context.Background(), "sid", uuid.New(), uuid.New(), draft())
	assert.ErrorIs(t, err, ErrCheckoutInFlight)

	close(block)
	require.NoError(t, <-firstDone)
}
