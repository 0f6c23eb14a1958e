package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"
)

const verificationSubject = "Код подтверждения регистрации"

var verificationTmpl = template.Must(template.New("verification").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #333;">Подтверждение регистрации</h1>
  <p style="font-size: 16px; color: #666;">Ваш код подтверждения:</p>
  <div style="background: #f4f4f4; padding: 20px; text-align: center; border-radius: 8px; margin: 20px 0;">
    <h2 style="color: #333; font-size: 32px; letter-spacing: 8px; margin: 0;">{{.Code}}</h2>
  </div>
  <p style="font-size: 14px; color: #666;">Этот код действителен в течение {{.Minutes}} минут.</p>
  <p style="font-size: 14px; color: #666;">Если вы не регистрировались на нашем сайте, проигнорируйте это письмо.</p>
</div>`))

// EmailClient talks to a Resend-compatible HTTP API.
type EmailClient struct {
	baseURL    string
	apiKey     string
	from       string
	validFor   time.Duration
	httpClient *http.Client
}

func NewEmailClient(baseURL, apiKey, from string, validFor, timeout time.Duration) *EmailClient {
	return &EmailClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		from:       from,
		validFor:   validFor,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (c *EmailClient) SendVerificationCode(ctx context.Context, email, code string) (json.RawMessage, error) {
	var html bytes.Buffer
	err := verificationTmpl.Execute(&html, struct {
		Code    string
		Minutes int
	}{code, int(c.validFor.Minutes())})
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(sendEmailRequest{
		From:    c.from,
		To:      []string{email},
		Subject: verificationSubject,
		HTML:    html.String(),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("email provider returned status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("email provider returned non-JSON body")
	}
	return json.RawMessage(raw), nil
}
