package mail

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

const defaultSendgridBaseURL = "https://api.sendgrid.com"

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers outbound email. Implemented by SendgridSender in
// production and by fakes in tests.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// SendgridSender delivers mail through the SendGrid v3 API.
type SendgridSender struct {
	APIKey     string
	FromEmail  string
	BaseURL    string
	HTTPClient *http.Client
}

// NewSendgridSender creates a SendGrid-backed sender.
func NewSendgridSender(apiKey, fromEmail, baseURL string) *SendgridSender {
	return &SendgridSender{
		APIKey:    apiKey,
		FromEmail: fromEmail,
		BaseURL:   baseURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type sendgridAddress struct {
	Email string `json:"email"`
}

type sendgridRequest struct {
	Personalizations []struct {
		To []sendgridAddress `json:"to"`
	} `json:"personalizations"`
	From    sendgridAddress `json:"from"`
	Subject string          `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

// Send posts the message to /v3/mail/send. SendGrid answers 202 Accepted on
// success.
func (s *SendgridSender) Send(ctx context.Context, msg *Message) error {
	if strings.TrimSpace(s.APIKey) == "" {
		return fmt.Errorf("missing SendGrid API key")
	}
	if strings.TrimSpace(s.FromEmail) == "" {
		return fmt.Errorf("missing SendGrid from address")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultSendgridBaseURL
	}
	httpClient := s.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	var reqBody sendgridRequest
	reqBody.Personalizations = []struct {
		To []sendgridAddress `json:"to"`
	}{
		{To: []sendgridAddress{{Email: msg.To}}},
	}
	reqBody.From = sendgridAddress{Email: s.FromEmail}
	reqBody.Subject = msg.Subject
	reqBody.Content = []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{
		{Type: "text/html", Value: msg.HTML},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal SendGrid payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v3/mail/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create SendGrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute SendGrid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("SendGrid request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
