package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chronosync/chronosync/internal/database"
	"github.com/chronosync/chronosync/internal/models"
)

// WebhookPayload is the envelope Razorpay posts to the webhook endpoint.
type WebhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Subscription struct {
			Entity SubscriptionEntity `json:"entity"`
		} `json:"subscription"`
	} `json:"payload"`
}

// SubscriptionEntity is the subscription entity embedded in a webhook
// payload.
type SubscriptionEntity struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	CurrentEnd int64  `json:"current_end"`
}

// Tracker applies webhook-driven subscription lifecycle transitions to the
// owning user record.
type Tracker struct {
	users  database.UserRepositoryInterface
	logger *zap.Logger
}

// NewTracker creates a subscription lifecycle tracker.
func NewTracker(users database.UserRepositoryInterface, logger *zap.Logger) *Tracker {
	return &Tracker{users: users, logger: logger}
}

// statusForEvent maps a Razorpay webhook event name to the subscription
// status it carries. Halted subscriptions (exhausted payment retries) are
// treated the same as paused ones.
func statusForEvent(event string) (models.SubscriptionStatus, bool) {
	switch event {
	case "subscription.activated":
		return models.SubscriptionStatusActive, true
	case "subscription.paused", "subscription.halted":
		return models.SubscriptionStatusPaused, true
	case "subscription.cancelled":
		return models.SubscriptionStatusCancelled, true
	case "subscription.completed":
		return models.SubscriptionStatusCompleted, true
	default:
		return "", false
	}
}

// HandleEvent applies one webhook event. Unknown events and subscription ids
// that no user holds are logged and ignored so Razorpay does not retry them.
// Replays settle on the same final state.
func (t *Tracker) HandleEvent(ctx context.Context, event string, entity *SubscriptionEntity) error {
	status, ok := statusForEvent(event)
	if !ok {
		t.logger.Info("webhook_event_ignored", zap.String("event", event))
		return nil
	}
	if entity == nil || entity.ID == "" {
		t.logger.Warn("webhook_missing_subscription_entity", zap.String("event", event))
		return nil
	}

	user, err := t.users.GetBySubscriptionID(ctx, entity.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			t.logger.Info("webhook_subscription_unmatched",
				zap.String("event", event),
				zap.String("subscription_id", entity.ID))
			return nil
		}
		return fmt.Errorf("failed to look up subscription owner: %w", err)
	}

	user.SubscriptionStatus = status
	if entity.CurrentEnd > 0 {
		expires := time.Unix(entity.CurrentEnd, 0)
		user.SubscriptionExpires = &expires
	}
	if status == models.SubscriptionStatusActive {
		user.Plan = models.PlanPaid
	}
	if status.IsTerminal() {
		user.Plan = models.PlanFree
		user.SubscriptionID = nil
	}

	if err := t.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to apply subscription transition: %w", err)
	}

	t.logger.Info("subscription_transition_applied",
		zap.String("event", event),
		zap.String("subscription_id", entity.ID),
		zap.String("user_id", user.ID.String()),
		zap.String("status", string(status)))
	return nil
}
