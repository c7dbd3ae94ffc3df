package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/pestozap/pestozap-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init connects to Redis and keeps the client as the process-wide handle.
func Init(cfg *config.RedisConfig) error {
	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}

	return nil
}

// GetClient returns the shared client.
func GetClient() *redis.Client {
	return client
}

// Close closes the shared client.
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}

// Ping checks the shared client.
func Ping(ctx context.Context) error {
	if client == nil {
		return fmt.Errorf("redis not initialized")
	}
	return client.Ping(ctx).Err()
}
