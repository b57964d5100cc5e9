package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chronosync/chronosync/internal/database"
	"github.com/chronosync/chronosync/internal/models"
	"github.com/chronosync/chronosync/internal/request"
	"github.com/chronosync/chronosync/internal/services/billing"
)

// SubscriptionHandler handles subscription lifecycle requests
type SubscriptionHandler struct {
	userRepo   database.UserRepositoryInterface
	razorpay   *billing.Client
	planCycles int
	keyID      string
	keySecret  string
	logger     *zap.Logger
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(userRepo database.UserRepositoryInterface, razorpay *billing.Client, keyID, keySecret string, planCycles int, logger *zap.Logger) *SubscriptionHandler {
	if planCycles <= 0 {
		planCycles = 12
	}
	return &SubscriptionHandler{
		userRepo:   userRepo,
		razorpay:   razorpay,
		planCycles: planCycles,
		keyID:      keyID,
		keySecret:  keySecret,
		logger:     logger,
	}
}

// RegisterRoutes registers subscription routes on the given router
// The router should already have the /subscription prefix
func (h *SubscriptionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/create", h.CreateSubscription).Methods("POST")
	r.HandleFunc("/verify", h.VerifyPayment).Methods("POST")
	r.HandleFunc("/cancel", h.CancelSubscription).Methods("POST")
}

// CreateSubscriptionRequest carries the Razorpay plan to subscribe to
type CreateSubscriptionRequest struct {
	PlanID string `json:"planId" validate:"required"`
}

// VerifyPaymentRequest carries the checkout result Razorpay hands the client
type VerifyPaymentRequest struct {
	RazorpayPaymentID      string `json:"razorpay_payment_id"`
	RazorpaySubscriptionID string `json:"razorpay_subscription_id"`
	RazorpaySignature      string `json:"razorpay_signature"`
}

// CreateSubscription creates a Razorpay subscription and stores its id on the
// user. The plan does not change until payment is verified.
func (h *SubscriptionHandler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlanID == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "planId is required")
		return
	}

	ctx := r.Context()
	sub, err := h.razorpay.CreateSubscription(ctx, req.PlanID, h.planCycles)
	if err != nil {
		h.logger.Error("subscription_create_failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Subscription creation failed")
		return
	}

	user.SubscriptionID = &sub.ID
	user.SubscriptionStatus = models.SubscriptionStatus(sub.Status)
	if user.SubscriptionStatus == "" {
		user.SubscriptionStatus = models.SubscriptionStatusCreated
	}
	if err := h.userRepo.Update(ctx, user); err != nil {
		h.logger.Error("subscription_store_failed",
			zap.String("user_id", user.ID.String()),
			zap.String("subscription_id", sub.ID),
			zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Subscription creation failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"subscriptionId": sub.ID,
		"key":            h.keyID,
	})
}

// VerifyPayment checks the checkout signature and activates the paying user
func (h *SubscriptionHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if req.RazorpayPaymentID == "" || req.RazorpaySubscriptionID == "" || req.RazorpaySignature == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "payment id, subscription id and signature are required")
		return
	}

	if !billing.VerifyPaymentSignature(req.RazorpayPaymentID, req.RazorpaySubscriptionID, req.RazorpaySignature, h.keySecret) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid signature")
		return
	}

	ctx := r.Context()
	if err := h.userRepo.ActivateBySubscriptionID(ctx, req.RazorpaySubscriptionID); err != nil {
		h.logger.Error("subscription_activation_failed",
			zap.String("subscription_id", req.RazorpaySubscriptionID),
			zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Subscription verification failed")
		return
	}

	h.logger.Info("subscription_verified",
		zap.String("subscription_id", req.RazorpaySubscriptionID))
	respondJSON(w, http.StatusOK, map[string]string{"status": "active"})
}

// CancelSubscription cancels at the end of the current billing cycle. The
// plan stays paid until a terminal webhook arrives.
func (h *SubscriptionHandler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}
	if user.SubscriptionID == nil || *user.SubscriptionID == "" {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Subscription not found")
		return
	}

	ctx := r.Context()
	if _, err := h.razorpay.CancelSubscription(ctx, *user.SubscriptionID, true); err != nil {
		h.logger.Error("subscription_cancel_failed",
			zap.String("user_id", user.ID.String()),
			zap.String("subscription_id", *user.SubscriptionID),
			zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to cancel subscription")
		return
	}

	user.SubscriptionStatus = models.SubscriptionStatusCancelledAtPeriodEnd
	if err := h.userRepo.Update(ctx, user); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to cancel subscription")
		return
	}

	respondJSONMessage(w, http.StatusOK, "Subscription will end after current billing cycle", nil)
}
