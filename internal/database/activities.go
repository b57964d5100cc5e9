package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chronosync/chronosync/internal/models"
	"github.com/google/uuid"
)

// ActivityRepository handles activity database operations
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create creates a new activity
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	query := `
		INSERT INTO activities (id, user_id, category, duration_minutes, date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		activity.ID,
		activity.UserID,
		activity.Category,
		activity.Duration,
		activity.Date,
		activity.Notes,
		time.Now(),
	).Scan(&activity.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	return nil
}

// GetByID retrieves an activity by ID
func (r *ActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	activity := &models.Activity{}
	query := `
		SELECT id, user_id, category, duration_minutes, date, notes, created_at
		FROM activities
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&activity.ID,
		&activity.UserID,
		&activity.Category,
		&activity.Duration,
		&activity.Date,
		&activity.Notes,
		&activity.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("activity not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	return activity, nil
}

// GetByUserAndDate retrieves a user's activities for a single calendar day,
// newest first.
func (r *ActivityRepository) GetByUserAndDate(ctx context.Context, userID uuid.UUID, date string) ([]*models.Activity, error) {
	query := `
		SELECT id, user_id, category, duration_minutes, date, notes, created_at
		FROM activities
		WHERE user_id = $1 AND date = $2
		ORDER BY created_at DESC
	`

	return r.queryActivities(ctx, query, userID, date)
}

// GetByUserAndDateRange retrieves a user's activities with dates in the
// inclusive range [startDate, endDate], ordered by date ascending. Dates are
// plain "YYYY-MM-DD" strings, so lexicographic comparison matches calendar order.
func (r *ActivityRepository) GetByUserAndDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]*models.Activity, error) {
	query := `
		SELECT id, user_id, category, duration_minutes, date, notes, created_at
		FROM activities
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC, created_at ASC
	`

	return r.queryActivities(ctx, query, userID, startDate, endDate)
}

func (r *ActivityRepository) queryActivities(ctx context.Context, query string, args ...any) ([]*models.Activity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		activity := &models.Activity{}
		err := rows.Scan(
			&activity.ID,
			&activity.UserID,
			&activity.Category,
			&activity.Duration,
			&activity.Date,
			&activity.Notes,
			&activity.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}

	return activities, nil
}

// Delete deletes an activity by ID
func (r *ActivityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM activities WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("activity not found")
	}

	return nil
}
