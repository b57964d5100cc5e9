package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chronosync/chronosync/internal/models"
	"github.com/chronosync/chronosync/internal/services/billing"
)

const testRazorpaySecret = "test-razorpay-secret"

// newFakeRazorpay serves minimal subscription create/cancel responses
func newFakeRazorpay(t *testing.T) *httptest.Server {
	t.Helper()
	gateway := http.NewServeMux()
	gateway.HandleFunc("/subscriptions", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body["plan_id"] == "plan_broken" {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":{"description":"plan not found"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "sub_testcreate",
			"status": "created",
		})
	})
	gateway.HandleFunc("/subscriptions/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "sub_cancelled",
			"status": "cancelled",
		})
	})
	server := httptest.NewServer(gateway)
	t.Cleanup(server.Close)
	return server
}

func newSubscriptionRouter(userRepo *mockUserRepo, razorpayURL string) *mux.Router {
	client := billing.NewClient("rzp_test_key", testRazorpaySecret, razorpayURL)
	handler := NewSubscriptionHandler(userRepo, client, "rzp_test_key", testRazorpaySecret, 12, zap.NewNop())
	router := mux.NewRouter()
	handler.RegisterRoutes(router.PathPrefix("/subscription").Subrouter())
	return router
}

func TestCreateSubscription(t *testing.T) {
	t.Parallel()

	server := newFakeRazorpay(t)

	t.Run("stores subscription id and answers checkout key", func(t *testing.T) {
		t.Parallel()

		user := testUser()
		userRepo := newMockUserRepo(user)
		router := newSubscriptionRouter(userRepo, server.URL)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(user, "POST", "/subscription/create", map[string]string{"planId": "plan_basic"}))

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		envelope := decodeEnvelope(t, rec)
		data, _ := envelope["data"].(map[string]any)
		if data["subscriptionId"] != "sub_testcreate" {
			t.Errorf("Expected subscriptionId sub_testcreate, got %v", data["subscriptionId"])
		}
		if data["key"] != "rzp_test_key" {
			t.Errorf("Expected checkout key in response, got %v", data["key"])
		}

		stored := userRepo.users[user.ID]
		if stored.SubscriptionID == nil || *stored.SubscriptionID != "sub_testcreate" {
			t.Errorf("Expected subscription id stored on user, got %v", stored.SubscriptionID)
		}
		if stored.SubscriptionStatus != models.SubscriptionStatusCreated {
			t.Errorf("Expected status created, got %s", stored.SubscriptionStatus)
		}
		if stored.Plan != models.PlanFree {
			t.Errorf("Plan must not change before payment is verified, got %s", stored.Plan)
		}
	})

	t.Run("missing planId", func(t *testing.T) {
		t.Parallel()

		user := testUser()
		router := newSubscriptionRouter(newMockUserRepo(user), server.URL)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(user, "POST", "/subscription/create", map[string]string{}))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("gateway failure leaves user untouched", func(t *testing.T) {
		t.Parallel()

		user := testUser()
		userRepo := newMockUserRepo(user)
		router := newSubscriptionRouter(userRepo, server.URL)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(user, "POST", "/subscription/create", map[string]string{"planId": "plan_broken"}))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("Expected status 500, got %d", rec.Code)
		}
		if userRepo.users[user.ID].SubscriptionID != nil {
			t.Errorf("Expected no subscription stored after gateway failure")
		}
	})
}

func TestVerifyPayment(t *testing.T) {
	t.Parallel()

	server := newFakeRazorpay(t)
	paymentID := "pay_abc123"
	subscriptionID := "sub_abc123"
	validSignature := billing.PaymentSignature(paymentID, subscriptionID, testRazorpaySecret)

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantPaid   bool
	}{
		{
			name: "valid signature activates",
			body: map[string]string{
				"razorpay_payment_id":      paymentID,
				"razorpay_subscription_id": subscriptionID,
				"razorpay_signature":       validSignature,
			},
			wantStatus: http.StatusOK,
			wantPaid:   true,
		},
		{
			name: "tampered signature is rejected",
			body: map[string]string{
				"razorpay_payment_id":      paymentID,
				"razorpay_subscription_id": subscriptionID,
				"razorpay_signature":       "deadbeef",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing payment id",
			body: map[string]string{
				"razorpay_subscription_id": subscriptionID,
				"razorpay_signature":       validSignature,
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing signature",
			body: map[string]string{
				"razorpay_payment_id":      paymentID,
				"razorpay_subscription_id": subscriptionID,
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			user := testUser()
			subID := subscriptionID
			user.SubscriptionID = &subID
			user.SubscriptionStatus = models.SubscriptionStatusCreated
			userRepo := newMockUserRepo(user)
			router := newSubscriptionRouter(userRepo, server.URL)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest(user, "POST", "/subscription/verify", tt.body))

			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}

			stored := userRepo.users[user.ID]
			if tt.wantPaid {
				if stored.Plan != models.PlanPaid {
					t.Errorf("Expected plan paid after verification, got %s", stored.Plan)
				}
				if stored.SubscriptionStatus != models.SubscriptionStatusActive {
					t.Errorf("Expected status active, got %s", stored.SubscriptionStatus)
				}
			} else if stored.Plan != models.PlanFree {
				t.Errorf("Plan must not change on failed verification, got %s", stored.Plan)
			}
		})
	}
}

func TestCancelSubscription(t *testing.T) {
	t.Parallel()

	server := newFakeRazorpay(t)

	t.Run("cancels at cycle end and keeps plan paid", func(t *testing.T) {
		t.Parallel()

		user := testUser()
		subID := "sub_tocancel"
		user.SubscriptionID = &subID
		user.Plan = models.PlanPaid
		user.SubscriptionStatus = models.SubscriptionStatusActive
		userRepo := newMockUserRepo(user)
		router := newSubscriptionRouter(userRepo, server.URL)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(user, "POST", "/subscription/cancel", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		stored := userRepo.users[user.ID]
		if stored.SubscriptionStatus != models.SubscriptionStatusCancelledAtPeriodEnd {
			t.Errorf("Expected status cancelled_at_period_end, got %s", stored.SubscriptionStatus)
		}
		if stored.Plan != models.PlanPaid {
			t.Errorf("Plan stays paid until a terminal webhook arrives, got %s", stored.Plan)
		}
		if stored.SubscriptionID == nil || *stored.SubscriptionID != subID {
			t.Errorf("Subscription id stays until a terminal webhook arrives")
		}
	})

	t.Run("no subscription answers not found", func(t *testing.T) {
		t.Parallel()

		user := testUser()
		router := newSubscriptionRouter(newMockUserRepo(user), server.URL)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(user, "POST", "/subscription/cancel", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", rec.Code)
		}
	})
}
