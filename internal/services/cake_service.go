package services

import (
	"context"
	"strings"
	"time"

	"cake-shop/internal/domain"
	"cake-shop/internal/repository"

	"github.com/google/uuid"
)

type CakeService struct {
	repo  repository.CakeRepository
	carts *CartService
	now   func() time.Time
}

func NewCakeService(repo repository.CakeRepository, carts *CartService) *CakeService {
	return &CakeService{repo: repo, carts: carts, now: time.Now}
}

func (s *CakeService) Save(ctx context.Context, userID, name string, design domain.CakeDesign) (*domain.SavedCake, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", fieldMessages["required"])
	}
	c := &domain.SavedCake{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Layers:    design,
		CreatedAt: s.now(),
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CakeService) List(ctx context.Context, userID string) ([]domain.SavedCake, error) {
	out, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.SavedCake{}
	}
	return out, nil
}

// AddToCart puts a saved cake into the cart at the fixed custom-cake price.
func (s *CakeService) AddToCart(ctx context.Context, userID, cakeID, sessionID string) (domain.Cart, error) {
	c, err := s.repo.FindByID(ctx, cakeID)
	if err != nil {
		return domain.Cart{}, err
	}
	if c == nil || c.UserID != userID {
		return domain.Cart{}, domain.ErrNotFound
	}
	return s.carts.AddLine(ctx, sessionID, c.CartLine())
}
