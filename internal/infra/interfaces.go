package infra

import (
	"context"
	"encoding/json"
)

type EmailSender interface {
	// SendVerificationCode returns the provider response body unchanged.
	SendVerificationCode(ctx context.Context, email, code string) (json.RawMessage, error)
}

type OperatorNotifier interface {
	NotifyNewOrder(ctx context.Context, msg NewOrderMessage) error
	SendMessage(ctx context.Context, chatID int64, text string) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

var (
	_ EmailSender      = (*EmailClient)(nil)
	_ OperatorNotifier = (*BotClient)(nil)
)
