package billing

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

const defaultBaseURL = "https://api.razorpay.com/v1"

// Subscription is the subset of Razorpay's subscription entity this service
// reads back from API responses.
type Subscription struct {
	ID         string `json:"id"`
	PlanID     string `json:"plan_id"`
	Status     string `json:"status"`
	CurrentEnd int64  `json:"current_end"`
	ShortURL   string `json:"short_url"`
}

// Client is a Razorpay API client for subscription management. The zero
// HTTPClient falls back to a client with a sane timeout.
type Client struct {
	KeyID      string
	KeySecret  string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a Razorpay client with explicit credentials. Constructed
// once at startup and injected into the handlers that need it.
func NewClient(keyID, keySecret, baseURL string) *Client {
	return &Client{
		KeyID:     keyID,
		KeySecret: keySecret,
		BaseURL:   baseURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateSubscription creates a subscription for the given plan. totalCount is
// the number of billing cycles the subscription runs for.
func (c *Client) CreateSubscription(ctx context.Context, planID string, totalCount int) (*Subscription, error) {
	body := map[string]any{
		"plan_id":         planID,
		"customer_notify": 1,
		"total_count":     totalCount,
	}
	return c.post(ctx, "/subscriptions", body)
}

// CancelSubscription cancels a subscription. When atCycleEnd is true the
// subscription keeps running until the current billing cycle ends.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string, atCycleEnd bool) (*Subscription, error) {
	cancelAtCycleEnd := 0
	if atCycleEnd {
		cancelAtCycleEnd = 1
	}
	body := map[string]any{
		"cancel_at_cycle_end": cancelAtCycleEnd,
	}
	return c.post(ctx, fmt.Sprintf("/subscriptions/%s/cancel", subscriptionID), body)
}

func (c *Client) post(ctx context.Context, path string, reqBody map[string]any) (*Subscription, error) {
	if strings.TrimSpace(c.KeyID) == "" || strings.TrimSpace(c.KeySecret) == "" {
		return nil, fmt.Errorf("missing Razorpay API credentials")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal Razorpay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create Razorpay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.KeyID, c.KeySecret)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute Razorpay request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read Razorpay response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Razorpay request failed with status %d: %s", resp.StatusCode, apiErrorDescription(respBody))
	}

	var sub Subscription
	if err := json.Unmarshal(respBody, &sub); err != nil {
		return nil, fmt.Errorf("decode Razorpay response: %w", err)
	}
	if sub.ID == "" {
		return nil, fmt.Errorf("Razorpay response missing subscription id")
	}
	return &sub, nil
}

// apiErrorDescription pulls the error description out of a Razorpay error
// body, falling back to a generic string.
func apiErrorDescription(body []byte) string {
	var parsed struct {
		Error struct {
			Description string `json:"description"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Description != "" {
		return parsed.Error.Description
	}
	return "unexpected error"
}
