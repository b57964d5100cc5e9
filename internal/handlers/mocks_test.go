package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/chronosync/chronosync/internal/database"
	"github.com/chronosync/chronosync/internal/models"
	"github.com/chronosync/chronosync/internal/queue"
	"github.com/chronosync/chronosync/internal/request"
)

// Interface compliance checks for the shared test doubles
var (
	_ database.UserRepositoryInterface     = (*mockUserRepo)(nil)
	_ database.ActivityRepositoryInterface = (*mockActivityRepo)(nil)
	_ database.CategoryRepositoryInterface = (*mockCategoryRepo)(nil)
	_ queue.JobQueue                       = (*mockJobQueue)(nil)
)

// mockUserRepo is an in-memory user store keyed by user id
type mockUserRepo struct {
	users       map[uuid.UUID]*models.User
	createErr   error
	updateErr   error
	updateCalls int
}

func newMockUserRepo(users ...*models.User) *mockUserRepo {
	repo := &mockUserRepo{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		copied := *u
		repo.users[u.ID] = &copied
	}
	return repo
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", sql.ErrNoRows)
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", sql.ErrNoRows)
}

func (m *mockUserRepo) GetByVerificationToken(_ context.Context, token string) (*models.User, error) {
	for _, user := range m.users {
		if user.VerificationToken != nil && *user.VerificationToken == token {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", sql.ErrNoRows)
}

func (m *mockUserRepo) GetBySubscriptionID(_ context.Context, subscriptionID string) (*models.User, error) {
	for _, user := range m.users {
		if user.SubscriptionID != nil && *user.SubscriptionID == subscriptionID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", sql.ErrNoRows)
}

func (m *mockUserRepo) ActivateBySubscriptionID(_ context.Context, subscriptionID string) error {
	for _, user := range m.users {
		if user.SubscriptionID != nil && *user.SubscriptionID == subscriptionID {
			user.Plan = models.PlanPaid
			user.SubscriptionStatus = models.SubscriptionStatusActive
			return nil
		}
	}
	return fmt.Errorf("no user holds subscription %s", subscriptionID)
}

func (m *mockUserRepo) Update(_ context.Context, user *models.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.users[user.ID]; !ok {
		return fmt.Errorf("user not found")
	}
	copied := *user
	m.users[user.ID] = &copied
	m.updateCalls++
	return nil
}

// mockActivityRepo is an in-memory activity store
type mockActivityRepo struct {
	activities map[uuid.UUID]*models.Activity
	createErr  error
	deleted    []uuid.UUID

	// last range requested through GetByUserAndDateRange
	lastStartDate string
	lastEndDate   string
}

func newMockActivityRepo(activities ...*models.Activity) *mockActivityRepo {
	repo := &mockActivityRepo{activities: make(map[uuid.UUID]*models.Activity)}
	for _, a := range activities {
		copied := *a
		repo.activities[a.ID] = &copied
	}
	return repo
}

func (m *mockActivityRepo) Create(_ context.Context, activity *models.Activity) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *activity
	m.activities[activity.ID] = &copied
	return nil
}

func (m *mockActivityRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Activity, error) {
	activity, ok := m.activities[id]
	if !ok {
		return nil, fmt.Errorf("activity not found: %w", sql.ErrNoRows)
	}
	copied := *activity
	return &copied, nil
}

func (m *mockActivityRepo) GetByUserAndDate(_ context.Context, userID uuid.UUID, date string) ([]*models.Activity, error) {
	var result []*models.Activity
	for _, a := range m.activities {
		if a.UserID == userID && a.Date == date {
			copied := *a
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockActivityRepo) GetByUserAndDateRange(_ context.Context, userID uuid.UUID, startDate, endDate string) ([]*models.Activity, error) {
	m.lastStartDate = startDate
	m.lastEndDate = endDate
	var result []*models.Activity
	for _, a := range m.activities {
		if a.UserID == userID && a.Date >= startDate && a.Date <= endDate {
			copied := *a
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockActivityRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.activities[id]; !ok {
		return fmt.Errorf("activity not found")
	}
	delete(m.activities, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// mockCategoryRepo is an in-memory custom category store
type mockCategoryRepo struct {
	categories map[uuid.UUID]*models.Category
	createErr  error
	deleted    []uuid.UUID
}

func newMockCategoryRepo(categories ...*models.Category) *mockCategoryRepo {
	repo := &mockCategoryRepo{categories: make(map[uuid.UUID]*models.Category)}
	for _, c := range categories {
		copied := *c
		repo.categories[c.ID] = &copied
	}
	return repo
}

func (m *mockCategoryRepo) Create(_ context.Context, category *models.Category) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, fmt.Errorf("category not found: %w", sql.ErrNoRows)
	}
	copied := *category
	return &copied, nil
}

func (m *mockCategoryRepo) GetByUserID(_ context.Context, userID uuid.UUID) ([]*models.Category, error) {
	var result []*models.Category
	for _, c := range m.categories {
		if c.UserID == userID {
			copied := *c
			result = append(result, &copied)
		}
	}
	return result, nil
}

// GetByUserAndName mirrors the SQL repository: no match answers (nil, nil)
func (m *mockCategoryRepo) GetByUserAndName(_ context.Context, userID uuid.UUID, name string) (*models.Category, error) {
	for _, c := range m.categories {
		if c.UserID == userID && c.Name == name {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, category *models.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return fmt.Errorf("category not found")
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return fmt.Errorf("category not found")
	}
	delete(m.categories, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// mockJobQueue records enqueued jobs
type mockJobQueue struct {
	enqueued   []*queue.Job
	enqueueErr error
}

func (q *mockJobQueue) Enqueue(_ context.Context, job *queue.Job) error {
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.enqueued = append(q.enqueued, job)
	return nil
}

func (q *mockJobQueue) Dequeue(_ context.Context) (*queue.Message, error) {
	return nil, nil
}

func (q *mockJobQueue) Consume(_ context.Context, _ int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, fmt.Errorf("not implemented")
}

func (q *mockJobQueue) Close() error { return nil }

func (q *mockJobQueue) HealthCheck(_ context.Context) error { return nil }

// testUser returns a verified free-plan user for handler tests
func testUser() *models.User {
	return &models.User{
		ID:            uuid.New(),
		Email:         "user@example.com",
		Name:          "Test User",
		EmailVerified: true,
		Plan:          models.PlanFree,
	}
}

// authedRequest builds a request carrying user in its context
func authedRequest(user *models.User, method, path string, body any) *http.Request {
	r := newTestRequest(method, path, body)
	return r.WithContext(request.WithUser(r.Context(), user))
}

// decodeEnvelope parses the standard response envelope
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope
}
