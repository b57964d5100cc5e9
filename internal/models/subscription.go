package models

// SubscriptionStatus represents where a subscription sits in its lifecycle.
// Statuses arrive from direct API calls (verify, cancel) and from Razorpay
// webhooks; the latest applied status is authoritative.
type SubscriptionStatus string

const (
	SubscriptionStatusNone                 SubscriptionStatus = "none"
	SubscriptionStatusCreated              SubscriptionStatus = "created"
	SubscriptionStatusActive               SubscriptionStatus = "active"
	SubscriptionStatusPaused               SubscriptionStatus = "paused"
	SubscriptionStatusCancelledAtPeriodEnd SubscriptionStatus = "cancelled_at_period_end"
	SubscriptionStatusCancelled            SubscriptionStatus = "cancelled"
	SubscriptionStatusCompleted            SubscriptionStatus = "completed"
)

// IsTerminal reports whether the status ends the subscription. Terminal
// statuses revert the user to the free plan and clear the stored
// subscription id.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusCancelled || s == SubscriptionStatusCompleted
}
