package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/chronosync/chronosync/internal/queue"
)

// checkTimeout bounds each dependency probe in extended mode
const checkTimeout = 5 * time.Second

// DatabasePinger is the slice of the database handle the health checker probes
type DatabasePinger interface {
	PingContext(ctx context.Context) error
}

// RedisPinger is the slice of the Redis client the health checker probes
type RedisPinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker handles health check requests
type HealthChecker struct {
	db       DatabasePinger
	redis    RedisPinger
	jobQueue queue.JobQueue
}

// NewHealthChecker creates a health checker that only probes the database
func NewHealthChecker(db DatabasePinger) *HealthChecker {
	return &HealthChecker{db: db}
}

// NewHealthCheckerWithDeps creates a health checker that also probes Redis
// and the job queue in extended mode. Nil dependencies are skipped.
func NewHealthCheckerWithDeps(db DatabasePinger, redis RedisPinger, jobQueue queue.JobQueue) *HealthChecker {
	return &HealthChecker{db: db, redis: redis, jobQueue: jobQueue}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if mode == "extended" {
		checks := make(map[string]string)

		record := func(name string, err error) {
			if err != nil {
				response.Status = "unhealthy"
				checks[name] = "unhealthy: " + err.Error()
			} else {
				checks[name] = "healthy"
			}
		}

		record("database", h.checkDatabase(r.Context()))
		if h.redis != nil {
			record("redis", h.checkRedis(r.Context()))
		}
		if h.jobQueue != nil {
			record("queue", h.checkQueue(r.Context()))
		}

		response.Checks = checks

		statusCode := http.StatusOK
		if response.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(response)
		return
	}

	// Basic mode - just return that the server is running
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// checkDatabase verifies the database connection
func (h *HealthChecker) checkDatabase(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	return h.db.PingContext(ctx)
}

// checkRedis verifies the Redis connection
func (h *HealthChecker) checkRedis(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	return h.redis.Ping(ctx)
}

// checkQueue verifies the job queue connection
func (h *HealthChecker) checkQueue(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	return h.jobQueue.HealthCheck(ctx)
}
