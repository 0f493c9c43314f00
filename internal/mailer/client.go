package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Message — письмо для отправки.
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Client отправляет письма через SendGrid-совместимый HTTP API.
// При пустом API ключе отправка выключена и Send возвращает nil, чтобы
// окружения без почты работали без изменений в коде.
type Client struct {
	apiKey     string
	baseURL    string
	fromEmail  string
	fromName   string
	httpClient *http.Client
}

// NewClient создаёт почтовый клиент.
func NewClient(apiKey, baseURL, fromEmail, fromName string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.sendgrid.com"
	}

	return &Client{
		apiKey:    strings.TrimSpace(apiKey),
		baseURL:   baseURL,
		fromEmail: fromEmail,
		fromName:  fromName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Enabled сообщает, настроена ли отправка почты.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailSendRequest struct {
	Personalizations []struct {
		To []emailAddress `json:"to"`
	} `json:"personalizations"`
	From    emailAddress `json:"from"`
	Subject string       `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

// Send отправляет письмо. Вызывается из фоновых горутин, поэтому все ошибки
// возвращаются вызывающей стороне для логирования, а не паникой.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if !c.Enabled() {
		return nil
	}
	if msg.To == "" {
		return fmt.Errorf("mailer: не указан получатель")
	}

	var payload mailSendRequest
	payload.Personalizations = append(payload.Personalizations, struct {
		To []emailAddress `json:"to"`
	}{To: []emailAddress{{Email: msg.To, Name: msg.ToName}}})
	payload.From = emailAddress{Email: c.fromEmail, Name: c.fromName}
	payload.Subject = msg.Subject

	if msg.Text != "" {
		payload.Content = append(payload.Content, struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		}{Type: "text/plain", Value: msg.Text})
	}
	if msg.HTML != "" {
		payload.Content = append(payload.Content, struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		}{Type: "text/html", Value: msg.HTML})
	}
	if len(payload.Content) == 0 {
		return fmt.Errorf("mailer: пустое тело письма")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mailer: не удалось сериализовать письмо: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mailer: не удалось создать запрос: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mailer: не удалось выполнить запрос: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mailer: код ответа %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
