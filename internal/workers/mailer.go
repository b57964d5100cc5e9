package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chronosync/chronosync/internal/queue"
	"github.com/chronosync/chronosync/internal/services/mail"
)

// MailDispatcher processes email delivery jobs
type MailDispatcher struct {
	sender      mail.Sender
	frontendURL string
	adminEmail  string
	jobQueue    queue.JobQueue // For re-enqueueing jobs with delays
}

// NewMailDispatcher creates a new mail dispatcher
func NewMailDispatcher(sender mail.Sender, frontendURL, adminEmail string, jobQueue queue.JobQueue) *MailDispatcher {
	return &MailDispatcher{
		sender:      sender,
		frontendURL: frontendURL,
		adminEmail:  adminEmail,
		jobQueue:    jobQueue,
	}
}

// ProcessVerificationEmailJob sends the post-signup verification email
func (d *MailDispatcher) ProcessVerificationEmailJob(ctx context.Context, job *queue.Job) error {
	token := job.MetadataString("token")
	if token == "" {
		return fmt.Errorf("token is required for verification email job")
	}

	// A stale verification link is worse than no mail at all
	if job.IsExpired() {
		log.Printf("Dropping expired verification email job %s for %s", job.ID, job.Email)
		return nil
	}

	msg := mail.VerificationMessage(job.Email, d.frontendURL, token)
	if err := d.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	log.Printf("Sent verification email to %s (job %s)", job.Email, job.ID)
	return nil
}

// ProcessWelcomeEmailJob sends the welcome email after verification
func (d *MailDispatcher) ProcessWelcomeEmailJob(ctx context.Context, job *queue.Job) error {
	msg := mail.WelcomeMessage(job.Email, job.MetadataString("name"), d.frontendURL)
	if err := d.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	log.Printf("Sent welcome email to %s (job %s)", job.Email, job.ID)
	return nil
}

// ProcessNewUserNotificationJob alerts the admin about a fresh registration
func (d *MailDispatcher) ProcessNewUserNotificationJob(ctx context.Context, job *queue.Job) error {
	if d.adminEmail == "" {
		log.Printf("No admin email configured, skipping notification for %s", job.Email)
		return nil
	}

	msg := mail.NewUserNotification(d.adminEmail, job.UserID.String(), job.MetadataString("name"), job.Email, false, job.CreatedAt)
	if err := d.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send admin notification: %w", err)
	}

	log.Printf("Sent new user notification for %s (job %s)", job.Email, job.ID)
	return nil
}

// ProcessJob processes a job based on its type
func (d *MailDispatcher) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	// Check if job should be processed now (respect NotBefore)
	if job.NotBefore != nil && time.Now().Before(*job.NotBefore) {
		log.Printf("Job %s not ready yet (NotBefore: %v), requeueing", job.ID, job.NotBefore)
		if nackErr := msg.Nack(true); nackErr != nil {
			log.Printf("Failed to requeue early job: %v", nackErr)
		}
		return nil
	}

	var err error
	switch job.Type {
	case queue.JobTypeVerificationEmail:
		err = d.ProcessVerificationEmailJob(ctx, job)
	case queue.JobTypeWelcomeEmail:
		err = d.ProcessWelcomeEmailJob(ctx, job)
	case queue.JobTypeNewUserNotification:
		err = d.ProcessNewUserNotificationJob(ctx, job)
	default:
		if nackErr := msg.Nack(false); nackErr != nil { // Unknown job type, send to DLQ
			log.Printf("Failed to nack unknown job type: %v", nackErr)
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	if err != nil {
		return d.handleJobError(ctx, msg, job, err)
	}
	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack job: %w", ackErr)
	}
	return nil
}

// handleJobError retries failed deliveries with backoff, falling through to
// the DLQ once retries are exhausted
func (d *MailDispatcher) handleJobError(ctx context.Context, msg queue.MessageInterface, job *queue.Job, err error) error {
	if job.CanRetry() && d.jobQueue != nil {
		retryDelay := retryBackoff(job.RetryCount)
		notBefore := time.Now().Add(retryDelay)
		delayedJob := &queue.Job{
			ID:         job.ID,
			Type:       job.Type,
			UserID:     job.UserID,
			Email:      job.Email,
			NotBefore:  &notBefore,
			NotAfter:   job.NotAfter,
			Metadata:   job.Metadata,
			CreatedAt:  job.CreatedAt,
			RetryCount: job.RetryCount + 1,
			MaxRetries: job.MaxRetries,
		}

		// Ack the current message before re-enqueueing the delayed copy
		if ackErr := msg.Ack(); ackErr != nil {
			log.Printf("Failed to ack job before re-enqueue: %v", ackErr)
		}

		if enqueueErr := d.jobQueue.Enqueue(ctx, delayedJob); enqueueErr != nil {
			log.Printf("Failed to re-enqueue job %s with delay: %v", job.ID, enqueueErr)
			return fmt.Errorf("delivery failed, re-enqueue failed: %w", enqueueErr)
		}

		log.Printf("Delivery of job %s failed (attempt %d/%d): %v, retrying at %v",
			job.ID, job.RetryCount+1, job.MaxRetries, err, notBefore)
		return nil
	}

	if job.CanRetry() {
		// No queue access to delay with; requeue for immediate retry
		job.IncrementRetry()
		log.Printf("Job %s failed (attempt %d/%d): %v, will retry", job.ID, job.RetryCount, job.MaxRetries, err)
		if nackErr := msg.Nack(true); nackErr != nil {
			log.Printf("Failed to nack job: %v", nackErr)
		}
		return fmt.Errorf("job failed (will retry): %w", err)
	}

	// Max retries exceeded, send to DLQ
	log.Printf("Job %s failed after %d retries: %v, sending to DLQ", job.ID, job.MaxRetries, err)
	if nackErr := msg.Nack(false); nackErr != nil {
		log.Printf("Failed to nack job to DLQ: %v", nackErr)
	}
	return fmt.Errorf("job failed (max retries): %w", err)
}

// retryBackoff doubles the delay per attempt: 1m, 2m, 4m, ...
func retryBackoff(retryCount int) time.Duration {
	delay := time.Minute
	for i := 0; i < retryCount; i++ {
		delay *= 2
	}
	if delay > 30*time.Minute {
		delay = 30 * time.Minute
	}
	return delay
}
