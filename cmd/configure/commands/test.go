package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chronosync/chronosync/internal/config"
	"github.com/chronosync/chronosync/internal/database"
	"github.com/chronosync/chronosync/internal/middleware"
	"github.com/chronosync/chronosync/internal/queue"
)

// NewTestCmd creates the test command
func NewTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test backing service connectivity",
		Long:  "Verify the database, Redis and RabbitMQ connections the API depends on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("database ping failed: %w", err)
			}
			fmt.Println("✓ Database is reachable")

			redisLimiter, err := middleware.NewRedisRateLimiter(cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("failed to connect to Redis: %w", err)
			}
			defer func() {
				if err := redisLimiter.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close Redis connection: %v\n", err)
				}
			}()
			if err := redisLimiter.Ping(ctx); err != nil {
				return fmt.Errorf("Redis ping failed: %w", err)
			}
			fmt.Println("✓ Redis is reachable")

			jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
			if err != nil {
				return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			defer func() {
				if err := jobQueue.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close RabbitMQ connection: %v\n", err)
				}
			}()
			if err := jobQueue.HealthCheck(ctx); err != nil {
				return fmt.Errorf("RabbitMQ health check failed: %w", err)
			}
			fmt.Println("✓ RabbitMQ is reachable")

			fmt.Println("\n✓ All backing services are reachable")
			return nil
		},
	}

	return cmd
}
