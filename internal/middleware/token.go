package middleware

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	tokenIssuer = "chronosync"
	// TokenTTL is how long an issued session token stays valid
	TokenTTL = 24 * time.Hour
)

// IssueToken mints a signed HS256 session token for the user.
func IssueToken(userID uuid.UUID, secret string) (string, error) {
	now := time.Now()
	tok, err := jwt.NewBuilder().
		Issuer(tokenIssuer).
		Subject(userID.String()).
		IssuedAt(now).
		Expiration(now.Add(TokenTTL)).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte(secret)))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(signed), nil
}

// ParseToken validates a session token and returns the user id it names.
func ParseToken(raw, secret string) (uuid.UUID, error) {
	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, []byte(secret)),
		jwt.WithValidate(true),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("token validation failed: %w", err)
	}

	userID, err := uuid.Parse(tok.Subject())
	if err != nil {
		return uuid.Nil, fmt.Errorf("token subject is not a user id: %w", err)
	}
	return userID, nil
}
