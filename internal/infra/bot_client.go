package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type NewOrderMessage struct {
	OrderID       string
	TrackNumber   string
	CustomerName  string
	CustomerPhone string
	DeliveryDate  string
	Comment       string
	Lines         []string
	TotalPrice    int64
}

func (m NewOrderMessage) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Новый заказ %s\n", m.TrackNumber)
	fmt.Fprintf(&b, "Клиент: %s, %s\n", m.CustomerName, m.CustomerPhone)
	fmt.Fprintf(&b, "Дата доставки: %s\n", m.DeliveryDate)
	for _, l := range m.Lines {
		b.WriteString("• " + l + "\n")
	}
	fmt.Fprintf(&b, "Итого: %d ₽", m.TotalPrice)
	if m.Comment != "" {
		b.WriteString("\nКомментарий: " + m.Comment)
	}
	return b.String()
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type inlineKeyboard struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type botResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// BotClient talks to a Telegram-compatible bot API.
type BotClient struct {
	baseURL    string
	token      string
	chatID     int64
	httpClient *http.Client
}

func NewBotClient(baseURL, token string, chatID int64, timeout time.Duration) *BotClient {
	return &BotClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *BotClient) NotifyNewOrder(ctx context.Context, msg NewOrderMessage) error {
	if c.chatID == 0 || c.token == "" {
		return nil
	}
	return c.call(ctx, "sendMessage", map[string]any{
		"chat_id": c.chatID,
		"text":    msg.Text(),
		"reply_markup": inlineKeyboard{InlineKeyboard: [][]inlineButton{{
			{Text: "Принять", CallbackData: "accept_" + msg.OrderID},
			{Text: "Отменить", CallbackData: "cancel_" + msg.OrderID},
		}, {
			{Text: "Доставлен", CallbackData: "delivered_" + msg.OrderID},
		}}},
	})
}

func (c *BotClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	if c.token == "" {
		return nil
	}
	return c.call(ctx, "sendMessage", map[string]any{"chat_id": chatID, "text": text})
}

func (c *BotClient) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if c.token == "" || callbackID == "" {
		return nil
	}
	return c.call(ctx, "answerCallbackQuery", map[string]any{"callback_query_id": callbackID, "text": text})
}

func (c *BotClient) call(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var out botResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("bot %s: decode response (status %d): %w", method, resp.StatusCode, err)
	}
	if !out.OK {
		return fmt.Errorf("bot %s: %s", method, out.Description)
	}
	return nil
}
