package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan represents a user's billing plan
type Plan string

const (
	PlanFree Plan = "free"
	PlanPaid Plan = "paid"
)

// User represents a user in the system
type User struct {
	ID                  uuid.UUID          `json:"id"`
	Email               string             `json:"email"`
	PasswordHash        string             `json:"-"`
	Name                string             `json:"name"`
	EmailVerified       bool               `json:"email_verified"`
	VerificationToken   *string            `json:"-"`
	Plan                Plan               `json:"plan"`
	SubscriptionID      *string            `json:"subscription_id,omitempty"`
	SubscriptionStatus  SubscriptionStatus `json:"subscription_status"`
	SubscriptionExpires *time.Time         `json:"subscription_expires_at,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}
