package checkout

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/restopos/restopos/internal/domain"
	"github.com/restopos/restopos/internal/events"
)

var (
	ErrEmptyCart        = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutInFlight = errors.New("checkout already in flight for this session")
	ErrUnknownPayment   = errors.New("payment type must be CASH or CARD")
)

// Carts is the slice of the composer the checkout needs.
type Carts interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// Orders persists the created order. Creation is atomic on the backend
// side: the order either exists afterwards or it does not.
type Orders interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
}

type Service struct {
	carts     Carts
	orders    Orders
	publisher events.Publisher

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(carts Carts, orders Orders, publisher events.Publisher) *Service {
	return &Service{
		carts:     carts,
		orders:    orders,
		publisher: publisher,
		inFlight:  make(map[string]struct{}),
	}
}

// Submit turns the session's cart into a persisted order, exactly once per
// accepted call. The cart is cleared only after the order exists; on any
// failure the cart is left untouched so the user can resubmit.
func (s *Service) Submit(ctx context.Context, sessionID string, userID, shopID uuid.UUID, draft domain.CheckoutDraft) (*domain.Order, error) {
	if _, err := domain.ParsePaymentType(string(draft.PaymentType)); err != nil {
		return nil, ErrUnknownPayment
	}

	// Busy flag, not a queue: a second submit while one is in flight is
	// rejected outright.
	if !s.begin(sessionID) {
		return nil, ErrCheckoutInFlight
	}
	defer s.end(sessionID)

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	order := buildOrder(cart, userID, shopID, draft)
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// The order exists; a stale cart is an annoyance, not a failure.
		log.Printf("clear cart after checkout error: %v", err)
	}

	if err := s.publisher.OrderCreated(ctx, order); err != nil {
		log.Printf("publish order created event error: %v", err)
	}

	return order, nil
}

func (s *Service) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *Service) end(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}

func buildOrder(cart *domain.Cart, userID, shopID uuid.UUID, draft domain.CheckoutDraft) *domain.Order {
	items := make([]domain.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		})
	}

	var note *string
	if draft.Note != "" {
		n := draft.Note
		note = &n
	}

	now := time.Now()
	return &domain.Order{
		ID:          uuid.New(),
		ShopID:      shopID,
		TotalAmount: cart.Total(),
		PaymentType: draft.PaymentType,
		Note:        note,
		Status:      domain.OrderStatusPending,
		Items:       items,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
