package queue

import (
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeVerificationEmail delivers the post-signup verification email
	JobTypeVerificationEmail JobType = "verification_email"
	// JobTypeWelcomeEmail delivers the welcome email after verification
	JobTypeWelcomeEmail JobType = "welcome_email"
	// JobTypeNewUserNotification alerts the admin that someone registered
	JobTypeNewUserNotification JobType = "new_user_notification"
)

// Job represents a job in the queue
type Job struct {
	ID         uuid.UUID      `json:"id"`
	Type       JobType        `json:"type"`
	UserID     uuid.UUID      `json:"user_id"`
	Email      string         `json:"email"`                // Recipient address
	NotBefore  *time.Time     `json:"not_before,omitempty"` // Earliest time to process job (nil = immediate)
	NotAfter   *time.Time     `json:"not_after,omitempty"`  // Latest time to process job (nil = no expiration)
	Metadata   map[string]any `json:"metadata,omitempty"`   // Job-specific data
	CreatedAt  time.Time      `json:"created_at"`
	RetryCount int            `json:"retry_count"`
	MaxRetries int            `json:"max_retries"`
}

// NewJob creates a new job
func NewJob(jobType JobType, userID uuid.UUID, email string) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		UserID:     userID,
		Email:      email,
		Metadata:   make(map[string]any),
		CreatedAt:  time.Now(),
		RetryCount: 0,
		MaxRetries: 3,
	}
}

// NewVerificationEmailJob creates a verification email job. The job expires
// with the verification link, so stale deliveries are dropped instead of
// mailing a dead link.
func NewVerificationEmailJob(userID uuid.UUID, email, token string) *Job {
	job := NewJob(JobTypeVerificationEmail, userID, email)
	job.Metadata["token"] = token
	expiry := time.Now().Add(24 * time.Hour)
	job.NotAfter = &expiry
	return job
}

// NewWelcomeEmailJob creates a welcome email job.
func NewWelcomeEmailJob(userID uuid.UUID, email, name string) *Job {
	job := NewJob(JobTypeWelcomeEmail, userID, email)
	job.Metadata["name"] = name
	return job
}

// NewUserNotificationJob creates an admin notification job for a fresh
// registration. Email on the job is the new user's address; the worker
// resolves the admin recipient from its own configuration.
func NewUserNotificationJob(userID uuid.UUID, email, name string) *Job {
	job := NewJob(JobTypeNewUserNotification, userID, email)
	job.Metadata["name"] = name
	return job
}

// MetadataString returns a string metadata value, or "" if absent.
func (j *Job) MetadataString(key string) string {
	if j.Metadata == nil {
		return ""
	}
	value, _ := j.Metadata[key].(string)
	return value
}

// ShouldProcess checks if the job should be processed now
func (j *Job) ShouldProcess() bool {
	now := time.Now()

	// Check NotBefore
	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}

	// Check NotAfter
	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}

	return true
}

// IsExpired checks if the job has expired
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}

	return time.Now().After(*j.NotAfter)
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
