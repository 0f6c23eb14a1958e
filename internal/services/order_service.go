package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cake-shop/internal/domain"
	"cake-shop/internal/infra"
	rabbit "cake-shop/internal/infra/rabbitmq"
	"cake-shop/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ContactInfo struct {
	CustomerName  string `json:"customerName" validate:"required,max=100"`
	CustomerPhone string `json:"customerPhone" validate:"required,phone"`
	DeliveryDate  string `json:"deliveryDate" validate:"required,isodate"`
	Comment       string `json:"comment" validate:"max=300"`
}

const notifyTimeout = 5 * time.Second

type OrderService struct {
	repo      repository.OrderRepository
	carts     *CartService
	publisher rabbit.EventPublisher
	notifier  infra.OperatorNotifier
	now       func() time.Time
}

func NewOrderService(r repository.OrderRepository, carts *CartService, pub rabbit.EventPublisher, n infra.OperatorNotifier) *OrderService {
	return &OrderService{
		repo:      r,
		carts:     carts,
		publisher: pub,
		notifier:  n,
		now:       time.Now,
	}
}

// Submit turns the session cart into one pending order. The cart is cleared
// only after the order row is stored; on any failure it is left as it was.
func (s *OrderService) Submit(ctx context.Context, userID, sessionID string, info ContactInfo) (*domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	info.CustomerName = strings.TrimSpace(info.CustomerName)
	info.CustomerPhone = strings.TrimSpace(info.CustomerPhone)
	info.DeliveryDate = strings.TrimSpace(info.DeliveryDate)
	if err := validateStruct(info); err != nil {
		return nil, err
	}
	if _, err := time.Parse(time.DateOnly, info.DeliveryDate); err != nil {
		return nil, domain.NewValidationError("deliveryDate", fieldMessages["isodate"])
	}

	var order *domain.Order
	err := s.carts.Checkout(ctx, sessionID, func(c domain.Cart) error {
		if c.IsEmpty() {
			return domain.ErrEmptyCart
		}
		id := uuid.NewString()
		o := &domain.Order{
			ID:            id,
			UserID:        userID,
			Items:         c.Snapshot(),
			TotalPrice:    c.Total(),
			CustomerName:  info.CustomerName,
			CustomerPhone: info.CustomerPhone,
			DeliveryDate:  info.DeliveryDate,
			Comment:       info.Comment,
			Status:        domain.StatusPending,
			TrackNumber:   domain.TrackNumber(id),
			CreatedAt:     s.now(),
		}
		if err := s.repo.Save(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("order submitted",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int64("total", order.TotalPrice),
		zap.Int("lines", len(order.Items)))

	go s.announce(*order)
	return order, nil
}

// announce publishes the creation event and pings the operator. Failures are
// logged only; the order already exists.
func (s *OrderService) announce(o domain.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if s.publisher != nil {
		evt := domain.OrderCreatedEvent{
			OrderID:     o.ID,
			UserID:      o.UserID,
			TotalPrice:  o.TotalPrice,
			TrackNumber: o.TrackNumber,
			CreatedAt:   o.CreatedAt,
		}
		if err := s.publisher.Publish(ctx, domain.EventOrderCreated, evt); err != nil {
			zap.L().Warn("publish order.created", zap.String("order_id", o.ID), zap.Error(err))
		}
	}

	if s.notifier != nil {
		lines := make([]string, 0, len(o.Items))
		for _, l := range o.Items {
			lines = append(lines, fmt.Sprintf("%s × %d = %d ₽", l.Name, l.Quantity, l.Subtotal()))
		}
		err := s.notifier.NotifyNewOrder(ctx, infra.NewOrderMessage{
			OrderID:       o.ID,
			TrackNumber:   o.TrackNumber,
			CustomerName:  o.CustomerName,
			CustomerPhone: o.CustomerPhone,
			DeliveryDate:  o.DeliveryDate,
			Comment:       o.Comment,
			Lines:         lines,
			TotalPrice:    o.TotalPrice,
		})
		if err != nil {
			zap.L().Warn("notify operator", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
}

func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}
