package mail

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// VerificationMessage builds the email-verification message sent right after
// signup. The link expires with the verification token.
func VerificationMessage(to, frontendURL, token string) *Message {
	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", strings.TrimRight(frontendURL, "/"), token)
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Please verify your email to start using ChronoSync</h2>
  <p>Please click the button below to verify your email address:</p>
  <a href="%[1]s" style="background-color: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">Verify Email</a>
  <p>Or copy and paste this link in your browser:</p>
  <p>%[1]s</p>
  <p>This link will expire in 24 hours.</p>
</div>`, verificationURL)

	return &Message{
		To:      to,
		Subject: "Verify Your ChronoSync Account",
		HTML:    body,
	}
}

// WelcomeMessage builds the welcome email sent once an address is verified.
func WelcomeMessage(to, name, frontendURL string) *Message {
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #3B82F6;">Welcome to ChronoSync, %s!</h2>
  <p>We're excited to have you on board. Here's what you can do with ChronoSync:</p>
  <ul>
    <li>Track your time across different activities</li>
    <li>View analytics and insights</li>
    <li>Create custom categories</li>
    <li>Access from any device</li>
  </ul>
  <p>Ready to get started? <a href="%s">Login to your account</a></p>
  <p>If you have any questions, just reply to this email!</p>
</div>`, html.EscapeString(name), frontendURL)

	return &Message{
		To:      to,
		Subject: "Welcome to ChronoSync!",
		HTML:    body,
	}
}

// NewUserNotification builds the admin alert raised when someone registers.
func NewUserNotification(adminEmail, userID, name, email string, verified bool, registeredAt time.Time) *Message {
	verifiedLabel := "No"
	if verified {
		verifiedLabel = "Yes"
	}
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #3B82F6;">New User Alert</h2>
  <div style="background: #f8fafc; padding: 20px; border-radius: 8px;">
    <p><strong>Name:</strong> %s</p>
    <p><strong>Email:</strong> %s</p>
    <p><strong>Registered At:</strong> %s</p>
    <p><strong>User ID:</strong> %s</p>
    <p><strong>Email Verified:</strong> %s</p>
  </div>
  <p style="margin-top: 20px; color: #6b7280;">This is an automated notification from your ChronoSync app.</p>
</div>`,
		html.EscapeString(name),
		html.EscapeString(email),
		registeredAt.Format(time.RFC1123),
		userID,
		verifiedLabel,
	)

	return &Message{
		To:      adminEmail,
		Subject: "New User Registered on ChronoSync",
		HTML:    body,
	}
}
