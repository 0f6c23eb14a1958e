package services

import (
	"context"
	"strings"

	"cake-shop/internal/domain"
	"cake-shop/internal/repository"

	"golang.org/x/sync/errgroup"
)

type OrderView struct {
	*domain.Order
	StatusLabel string `json:"statusLabel"`
}

type HistoryView struct {
	domain.OrderHistoryRecord
	StatusLabel string `json:"statusLabel"`
}

type ProfileView struct {
	Profile      *domain.Profile    `json:"profile"`
	CurrentOrder *OrderView         `json:"currentOrder"`
	History      []HistoryView      `json:"history"`
	SavedCakes   []domain.SavedCake `json:"savedCakes"`
}

// ProfileService is the read side over a user's profile and orders.
type ProfileService struct {
	profiles repository.ProfileRepository
	orders   repository.OrderRepository
	cakes    repository.CakeRepository
}

func NewProfileService(p repository.ProfileRepository, o repository.OrderRepository, c repository.CakeRepository) *ProfileService {
	return &ProfileService{profiles: p, orders: o, cakes: c}
}

func (s *ProfileService) View(ctx context.Context, userID string) (*ProfileView, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	var (
		profile *domain.Profile
		current *domain.Order
		history []domain.OrderHistoryRecord
		cakes   []domain.SavedCake
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile, err = s.profiles.FindByID(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		current, err = s.orders.FindCurrentByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		history, err = s.orders.ListHistoryByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		cakes, err = s.cakes.ListByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}

	view := &ProfileView{
		Profile:    profile,
		History:    make([]HistoryView, 0, len(history)),
		SavedCakes: cakes,
	}
	if view.SavedCakes == nil {
		view.SavedCakes = []domain.SavedCake{}
	}
	if current != nil {
		view.CurrentOrder = &OrderView{Order: current, StatusLabel: domain.StatusLabel(string(current.Status))}
	}
	for _, h := range history {
		view.History = append(view.History, HistoryView{
			OrderHistoryRecord: h,
			StatusLabel:        domain.StatusLabel(string(h.Outcome)),
		})
	}
	return view, nil
}

func (s *ProfileService) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	avatarURL = strings.TrimSpace(avatarURL)
	if avatarURL == "" {
		return domain.NewValidationError("avatarUrl", fieldMessages["required"])
	}
	return s.profiles.UpdateAvatar(ctx, userID, avatarURL)
}
