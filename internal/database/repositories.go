package database

import (
	"context"

	"github.com/chronosync/chronosync/internal/models"
	"github.com/google/uuid"
)

// UserRepositoryInterface defines the user repository operations used by the
// auth handlers and the subscription state tracker. The interface enables mock
// implementations in tests.
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*models.User, error)
	ActivateBySubscriptionID(ctx context.Context, subscriptionID string) error
	Update(ctx context.Context, user *models.User) error
}

// ActivityRepositoryInterface defines the activity repository operations used
// by the activity and analytics handlers.
type ActivityRepositoryInterface interface {
	Create(ctx context.Context, activity *models.Activity) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error)
	GetByUserAndDate(ctx context.Context, userID uuid.UUID, date string) ([]*models.Activity, error)
	GetByUserAndDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]*models.Activity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepositoryInterface defines the category repository operations used
// by the category and analytics handlers.
type CategoryRepositoryInterface interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Category, error)
	GetByUserAndName(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Ensure concrete types implement the interfaces
var (
	_ UserRepositoryInterface     = (*UserRepository)(nil)
	_ ActivityRepositoryInterface = (*ActivityRepository)(nil)
	_ CategoryRepositoryInterface = (*CategoryRepository)(nil)
)
