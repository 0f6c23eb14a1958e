package services

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"cake-shop/internal/cart"
	"cake-shop/internal/domain"
	"cake-shop/internal/repository"

	"go.uber.org/zap"
)

const cartLockStripes = 64

// CartService applies cart mutations one at a time per session so each
// mutation starts from the previously persisted snapshot.
type CartService struct {
	store    cart.Store
	products repository.ProductRepository
	locks    [cartLockStripes]sync.Mutex
}

func NewCartService(store cart.Store, products repository.ProductRepository) *CartService {
	return &CartService{store: store, products: products}
}

func (s *CartService) lock(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%cartLockStripes]
}

func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(*domain.Cart)) (domain.Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.Cart{}, domain.NewValidationError("session", "cart session is required")
	}
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, err
	}
	fn(&c)
	if err := s.store.Set(ctx, sessionID, c); err != nil {
		return domain.Cart{}, err
	}
	return c, nil
}

func (s *CartService) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	return s.store.Get(ctx, sessionID)
}

// Add snapshots the product as it is now and adds one unit of it.
func (s *CartService) Add(ctx context.Context, sessionID, productID string) (domain.Cart, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return domain.Cart{}, err
	}
	if p == nil {
		return domain.Cart{}, domain.ErrProductNotFound
	}
	return s.AddLine(ctx, sessionID, domain.LineFromProduct(*p))
}

func (s *CartService) AddLine(ctx context.Context, sessionID string, line domain.CartLine) (domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) { c.Add(line) })
}

func (s *CartService) Increment(ctx context.Context, sessionID, productID string) (domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) { c.Increment(productID) })
}

func (s *CartService) Decrement(ctx context.Context, sessionID, productID string) (domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) { c.Decrement(productID) })
}

func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()
	return s.store.Clear(ctx, sessionID)
}

// Checkout hands the current cart to fn while holding the session lock and
// clears the cart only if fn succeeds.
func (s *CartService) Checkout(ctx context.Context, sessionID string, fn func(domain.Cart) error) error {
	if strings.TrimSpace(sessionID) == "" {
		return domain.NewValidationError("session", "cart session is required")
	}
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	// The order already exists; a cart left full invites a duplicate resubmit.
	if err := s.store.Clear(ctx, sessionID); err != nil {
		zap.L().Warn("clear cart after checkout, retrying", zap.String("session", sessionID), zap.Error(err))
		if err := s.store.Clear(ctx, sessionID); err != nil {
			zap.L().Error("clear cart after checkout", zap.String("session", sessionID), zap.Error(err))
		}
	}
	return nil
}
