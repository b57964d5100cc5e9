package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chronosync/chronosync/internal/models"
	"github.com/google/uuid"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, name, email_verified, verification_token,
		plan, subscription_id, subscription_status, subscription_expires_at, created_at, updated_at`

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, email_verified, verification_token,
			plan, subscription_id, subscription_status, subscription_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.EmailVerified,
		user.VerificationToken,
		user.Plan,
		user.SubscriptionID,
		user.SubscriptionStatus,
		user.SubscriptionExpires,
		now,
		now,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var subExpires sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.EmailVerified,
		&user.VerificationToken,
		&user.Plan,
		&user.SubscriptionID,
		&user.SubscriptionStatus,
		&subExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if subExpires.Valid {
		user.SubscriptionExpires = &subExpires.Time
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetByVerificationToken retrieves a user by email verification token
func (r *UserRepository) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE verification_token = $1`

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, token))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by verification token: %w", err)
	}
	return user, nil
}

// GetBySubscriptionID retrieves the user holding the given Razorpay subscription id
func (r *UserRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE subscription_id = $1`

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, subscriptionID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by subscription id: %w", err)
	}
	return user, nil
}

// Update updates an existing user. The whole row is written in a single
// statement so each mutation stays atomic at row granularity.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, name = $4, email_verified = $5,
			verification_token = $6, plan = $7, subscription_id = $8,
			subscription_status = $9, subscription_expires_at = $10, updated_at = $11
		WHERE id = $1
		RETURNING updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.EmailVerified,
		user.VerificationToken,
		user.Plan,
		user.SubscriptionID,
		user.SubscriptionStatus,
		user.SubscriptionExpires,
		now,
	).Scan(&user.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("user not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// ActivateBySubscriptionID marks the user holding the subscription id as a
// paid, active subscriber. Used after successful payment verification.
func (r *UserRepository) ActivateBySubscriptionID(ctx context.Context, subscriptionID string) error {
	query := `
		UPDATE users
		SET plan = $2, subscription_status = $3, updated_at = $4
		WHERE subscription_id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		subscriptionID,
		models.PlanPaid,
		models.SubscriptionStatusActive,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to activate subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no user holds subscription %s", subscriptionID)
	}

	return nil
}
