package domain

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the status column of the active orders table. Only active
// statuses are ever stored there.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusAccepted   OrderStatus = "accepted"
	StatusPreparing  OrderStatus = "preparing"
	StatusProcessing OrderStatus = "processing"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPreparing, StatusProcessing:
		return true
	}
	return false
}

// ArchivedOutcome is how an order left the active table.
type ArchivedOutcome string

const (
	OutcomeCompleted ArchivedOutcome = "completed"
	OutcomeCancelled ArchivedOutcome = "cancelled"
)

func (o ArchivedOutcome) Valid() bool {
	return o == OutcomeCompleted || o == OutcomeCancelled
}

var statusLabels = map[string]string{
	string(StatusPending):    "На рассмотрении",
	string(StatusAccepted):   "Принят",
	string(StatusPreparing):  "Готовится",
	string(StatusProcessing): "В обработке",
	string(OutcomeCompleted): "Выполнен",
	string(OutcomeCancelled): "Отменён",
}

func StatusLabel(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}

const (
	MaxCommentLength  = 300
	TrackNumberLength = 8
)

type Order struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string      `json:"userId" gorm:"type:varchar(36);not null;index"`
	Items         []CartLine  `json:"items" gorm:"serializer:json;type:json;not null"`
	TotalPrice    int64       `json:"totalPrice" gorm:"not null"`
	CustomerName  string      `json:"customerName" gorm:"not null"`
	CustomerPhone string      `json:"customerPhone" gorm:"not null"`
	DeliveryDate  string      `json:"deliveryDate" gorm:"type:varchar(10);not null"`
	Comment       string      `json:"comment,omitempty" gorm:"size:300"`
	Status        OrderStatus `json:"status" gorm:"type:varchar(16);not null;default:'pending'"`
	TrackNumber   string      `json:"trackNumber,omitempty" gorm:"type:varchar(16)"`
	CreatedAt     time.Time   `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time   `json:"updatedAt" gorm:"autoUpdateTime"`
}

// BeforeCreate rejects rows whose status is not an active status.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if !o.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, o.Status)
	}
	return nil
}

func (o *Order) ItemsTotal() int64 {
	var total int64
	for _, l := range o.Items {
		total += l.Subtotal()
	}
	return total
}

type OrderHistoryRecord struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID       string          `json:"orderId" gorm:"type:varchar(36);not null;uniqueIndex"`
	UserID        string          `json:"userId" gorm:"type:varchar(36);not null;index"`
	Items         []CartLine      `json:"items" gorm:"serializer:json;type:json;not null"`
	TotalPrice    int64           `json:"totalPrice" gorm:"not null"`
	CustomerName  string          `json:"customerName" gorm:"not null"`
	CustomerPhone string          `json:"customerPhone" gorm:"not null"`
	DeliveryDate  string          `json:"deliveryDate" gorm:"type:varchar(10);not null"`
	Comment       string          `json:"comment,omitempty" gorm:"size:300"`
	TrackNumber   string          `json:"trackNumber,omitempty" gorm:"type:varchar(16)"`
	Outcome       ArchivedOutcome `json:"outcome" gorm:"type:varchar(16);not null"`
	CompletedAt   time.Time       `json:"completedAt" gorm:"not null;index"`
}

func (OrderHistoryRecord) TableName() string {
	return "order_history"
}

func (r *OrderHistoryRecord) BeforeCreate(tx *gorm.DB) error {
	if !r.Outcome.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, r.Outcome)
	}
	return nil
}

// NewHistoryRecord copies the archival fields of o. The caller supplies the id.
func NewHistoryRecord(id string, o *Order, outcome ArchivedOutcome, completedAt time.Time) *OrderHistoryRecord {
	items := make([]CartLine, len(o.Items))
	copy(items, o.Items)
	return &OrderHistoryRecord{
		ID:            id,
		OrderID:       o.ID,
		UserID:        o.UserID,
		Items:         items,
		TotalPrice:    o.TotalPrice,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		DeliveryDate:  o.DeliveryDate,
		Comment:       o.Comment,
		TrackNumber:   o.TrackNumber,
		Outcome:       outcome,
		CompletedAt:   completedAt,
	}
}

// TrackNumber is the uppercase prefix of an identifier with separators removed.
// Two identifiers sharing a prefix share a track number.
func TrackNumber(id string) string {
	s := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(s) > TrackNumberLength {
		s = s[:TrackNumberLength]
	}
	return s
}
