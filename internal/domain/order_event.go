package domain

import "time"

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderArchived      = "order.archived"
)

type OrderCreatedEvent struct {
	OrderID     string    `json:"orderId"`
	UserID      string    `json:"userId"`
	TotalPrice  int64     `json:"totalPrice"`
	TrackNumber string    `json:"trackNumber"`
	CreatedAt   time.Time `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	OrderID string      `json:"orderId"`
	Status  OrderStatus `json:"status"`
	At      time.Time   `json:"at"`
}

type OrderArchivedEvent struct {
	OrderID     string          `json:"orderId"`
	Outcome     ArchivedOutcome `json:"outcome"`
	CompletedAt time.Time       `json:"completedAt"`
}
