package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubPinger struct {
	err error
}

func (s *stubPinger) PingContext(_ context.Context) error { return s.err }
func (s *stubPinger) Ping(_ context.Context) error        { return s.err }

type failingJobQueue struct {
	mockJobQueue
}

func (q *failingJobQueue) HealthCheck(_ context.Context) error {
	return fmt.Errorf("connection refused")
}

func runHealthCheck(checker *HealthChecker, mode string) (*httptest.ResponseRecorder, HealthResponse) {
	path := "/healthz"
	if mode != "" {
		path += "?mode=" + mode
	}
	rec := httptest.NewRecorder()
	checker.HealthCheck(rec, httptest.NewRequest("GET", path, nil))

	var response HealthResponse
	_ = json.NewDecoder(rec.Body).Decode(&response)
	return rec, response
}

func TestHealthCheckBasicMode(t *testing.T) {
	t.Parallel()

	// Basic mode never touches dependencies
	checker := NewHealthChecker(&stubPinger{err: fmt.Errorf("down")})

	rec, response := runHealthCheck(checker, "")

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if response.Status != "healthy" {
		t.Errorf("Expected status healthy, got %s", response.Status)
	}
	if response.Checks != nil {
		t.Errorf("Basic mode must not include checks, got %v", response.Checks)
	}
}

func TestHealthCheckExtendedMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		db         error
		redis      error
		queueDown  bool
		wantStatus int
		wantHealth string
	}{
		{
			name:       "all healthy",
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
		},
		{
			name:       "database down",
			db:         fmt.Errorf("dial tcp: connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
		},
		{
			name:       "redis down",
			redis:      fmt.Errorf("dial tcp: connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
		},
		{
			name:       "queue down",
			queueDown:  true,
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewHealthCheckerWithDeps(
				&stubPinger{err: tt.db},
				&stubPinger{err: tt.redis},
				&mockJobQueue{},
			)
			if tt.queueDown {
				checker = NewHealthCheckerWithDeps(
					&stubPinger{err: tt.db},
					&stubPinger{err: tt.redis},
					&failingJobQueue{},
				)
			}

			rec, response := runHealthCheck(checker, "extended")

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if response.Status != tt.wantHealth {
				t.Errorf("Expected %s, got %s", tt.wantHealth, response.Status)
			}
			if len(response.Checks) != 3 {
				t.Errorf("Expected database, redis and queue checks, got %v", response.Checks)
			}
		})
	}
}

func TestHealthCheckExtendedSkipsNilDependencies(t *testing.T) {
	t.Parallel()

	checker := NewHealthChecker(&stubPinger{})

	rec, response := runHealthCheck(checker, "extended")

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if len(response.Checks) != 1 {
		t.Errorf("Expected only the database check, got %v", response.Checks)
	}
}
