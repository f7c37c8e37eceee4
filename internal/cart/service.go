package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/restopos/restopos/internal/domain"
)

// ProductRef is the slice of a product the composer needs when a staff user
// taps a product card.
type ProductRef struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// Service is the order composer: it owns all cart mutations for a session
// and keeps the cache coherent with the repository.
type Service struct {
	repo  Repository
	cache Cache
	sfg   singleflight.Group // collapses concurrent cache misses per session
}

func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cart cache get error: %v", err)
		}

		cart, err = s.repo.GetCart(ctx, sessionID)
		if errors.Is(err, ErrCartNotFound) {
			// A session without a cart just has an empty one.
			return emptyCart(sessionID), nil
		}
		if err != nil {
			return nil, err
		}

		go func() {
			if err := s.cache.Set(context.Background(), sessionID, cart); err != nil {
				log.Printf("cart cache set error: %v", err)
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// AddProduct merges into an existing line for the product, or appends a new
// line with quantity 1 and a fresh line id.
func (s *Service) AddProduct(ctx context.Context, sessionID string, product ProductRef) (*domain.Cart, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == product.ID {
			cart.Lines[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		cart.Lines = append(cart.Lines, domain.CartLine{
			LineID:    uuid.NewString(),
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  1,
		})
	}

	return s.store(ctx, cart)
}

// UpdateQuantity sets a line's quantity outright. Zero or negative removes
// the line; an unknown line id leaves the cart untouched.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveLine(ctx, sessionID, lineID)
	}

	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range cart.Lines {
		if cart.Lines[i].LineID == lineID {
			cart.Lines[i].Quantity = quantity
			return s.store(ctx, cart)
		}
	}
	return cart, nil
}

func (s *Service) RemoveLine(ctx context.Context, sessionID, lineID string) (*domain.Cart, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i, line := range cart.Lines {
		if line.LineID == lineID {
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			return s.store(ctx, cart)
		}
	}
	return cart, nil
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteCart(ctx, sessionID); err != nil {
		log.Printf("repo delete cart error: %v", err)
		return err
	}
	s.invalidate(sessionID)
	return nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, sessionID)
	if errors.Is(err, ErrCartNotFound) {
		return emptyCart(sessionID), nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) store(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	cart.UpdatedAt = time.Now()
	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		log.Printf("repo upsert cart error: %v", err)
		return nil, err
	}
	s.invalidate(cart.SessionID)
	return cart, nil
}

func (s *Service) invalidate(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		log.Printf("cart cache invalidate error: %v", err)
	}
}

func emptyCart(sessionID string) *domain.Cart {
	now := time.Now()
	return &domain.Cart{
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
