package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(serverURL string) *Client {
	return NewClient("rzp_test_key", "rzp_test_secret", serverURL)
}

func TestClientCreateSubscription(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/subscriptions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		username, password, ok := r.BasicAuth()
		if !ok || username != "rzp_test_key" || password != "rzp_test_secret" {
			t.Error("request should carry basic auth credentials")
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if body["plan_id"] != "plan_monthly" {
			t.Errorf("plan_id = %v, want plan_monthly", body["plan_id"])
		}
		if body["customer_notify"] != float64(1) {
			t.Errorf("customer_notify = %v, want 1", body["customer_notify"])
		}
		if body["total_count"] != float64(12) {
			t.Errorf("total_count = %v, want 12", body["total_count"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"sub_123","plan_id":"plan_monthly","status":"created","short_url":"https://rzp.io/i/abc"}`))
	}))
	defer server.Close()

	sub, err := testClient(server.URL).CreateSubscription(context.Background(), "plan_monthly", 12)
	if err != nil {
		t.Fatalf("CreateSubscription() error = %v", err)
	}
	if sub.ID != "sub_123" {
		t.Errorf("subscription id = %q, want sub_123", sub.ID)
	}
	if sub.Status != "created" {
		t.Errorf("status = %q, want created", sub.Status)
	}
}

func TestClientCancelSubscription(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subscriptions/sub_123/cancel" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if body["cancel_at_cycle_end"] != float64(1) {
			t.Errorf("cancel_at_cycle_end = %v, want 1", body["cancel_at_cycle_end"])
		}
		_, _ = w.Write([]byte(`{"id":"sub_123","status":"cancelled"}`))
	}))
	defer server.Close()

	sub, err := testClient(server.URL).CancelSubscription(context.Background(), "sub_123", true)
	if err != nil {
		t.Fatalf("CancelSubscription() error = %v", err)
	}
	if sub.Status != "cancelled" {
		t.Errorf("status = %q, want cancelled", sub.Status)
	}
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The plan id provided does not exist"}}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).CreateSubscription(context.Background(), "plan_missing", 12)
	if err == nil {
		t.Fatal("expected error for API failure")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("error should carry the API description, got %q", err.Error())
	}
}

func TestClientRequiresCredentials(t *testing.T) {
	t.Parallel()

	client := NewClient("", "", "")
	if _, err := client.CreateSubscription(context.Background(), "plan_monthly", 12); err == nil {
		t.Fatal("expected error when credentials are missing")
	}
}
