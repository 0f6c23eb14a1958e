package repository

import (
	"context"
	"time"

	"cake-shop/internal/domain"
)

// Find* methods return nil, nil when the row does not exist.

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindCurrentByUser(ctx context.Context, userID string) (*domain.Order, error)
	// UpdateStatus reports false when the order is not in the active table.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (bool, error)
	// Archive moves the order into history in one transaction. It returns
	// nil, nil when the order is no longer active.
	Archive(ctx context.Context, id string, outcome domain.ArchivedOutcome, completedAt time.Time) (*domain.OrderHistoryRecord, error)
	ListHistoryByUser(ctx context.Context, userID string) ([]domain.OrderHistoryRecord, error)
}

type ProductQuery struct {
	Category string
	Search   string
	Page     int
	PageSize int
}

type ProductRepository interface {
	Query(ctx context.Context, q ProductQuery) ([]domain.Product, int64, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Save(ctx context.Context, p *domain.Product) error
}
