package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BotUpdate is the subset of a bot platform update the webhook understands.
type BotUpdate struct {
	UpdateID      int64          `json:"update_id,omitempty"`
	Message       *BotMessage    `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

type BotChat struct {
	ID int64 `json:"id"`
}

type BotMessage struct {
	MessageID int64    `json:"message_id,omitempty"`
	Chat      *BotChat `json:"chat,omitempty"`
	Text      string   `json:"text,omitempty"`
}

type CallbackQuery struct {
	ID      string      `json:"id,omitempty"`
	Data    string      `json:"data,omitempty"`
	Message *BotMessage `json:"message,omitempty"`
}

func (q *CallbackQuery) ChatID() int64 {
	if q.Message == nil || q.Message.Chat == nil {
		return 0
	}
	return q.Message.Chat.ID
}

type OperatorAction string

const (
	ActionAccept    OperatorAction = "accept"
	ActionCancel    OperatorAction = "cancel"
	ActionDelivered OperatorAction = "delivered"
)

var ErrMalformedCallback = errors.New("malformed callback data")

// OperatorCommand is a parsed "<action>_<orderId>" callback payload.
type OperatorCommand struct {
	Action  OperatorAction
	OrderID string
}

func ParseOperatorCommand(data string) (OperatorCommand, error) {
	action, orderID, ok := strings.Cut(data, "_")
	if !ok || orderID == "" {
		return OperatorCommand{}, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
	}
	switch a := OperatorAction(action); a {
	case ActionAccept, ActionCancel, ActionDelivered:
		if _, err := uuid.Parse(orderID); err != nil {
			return OperatorCommand{}, fmt.Errorf("%w: order id %q", ErrMalformedCallback, orderID)
		}
		return OperatorCommand{Action: a, OrderID: orderID}, nil
	}
	return OperatorCommand{}, fmt.Errorf("%w: unknown action %q", ErrMalformedCallback, action)
}
