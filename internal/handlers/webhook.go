package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chronosync/chronosync/internal/services/billing"
)

// maxWebhookBodySize bounds how much of a webhook body is read
const maxWebhookBodySize = 1 << 20

// WebhookHandler receives Razorpay webhook deliveries
type WebhookHandler struct {
	tracker       *billing.Tracker
	webhookSecret string
	logger        *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(tracker *billing.Tracker, webhookSecret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		tracker:       tracker,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// RegisterRoutes registers webhook routes on the given router
// The router should already have the /webhook prefix
func (h *WebhookHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/razorpay", h.HandleRazorpay).Methods("POST")
}

// HandleRazorpay verifies the delivery signature against the raw body before
// any parsing, then applies the carried lifecycle event. Unknown events and
// subscription ids answer 200 so Razorpay stops redelivering them.
func (h *WebhookHandler) HandleRazorpay(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Failed to read request body")
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if !billing.VerifyWebhookSignature(body, signature, h.webhookSecret) {
		h.logger.Warn("webhook_signature_invalid")
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid signature")
		return
	}

	var payload billing.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid webhook payload")
		return
	}

	entity := payload.Payload.Subscription.Entity
	if err := h.tracker.HandleEvent(r.Context(), payload.Event, &entity); err != nil {
		h.logger.Error("webhook_processing_failed",
			zap.String("event", payload.Event),
			zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Webhook processing failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
