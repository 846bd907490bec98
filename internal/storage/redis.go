// Package storage persists uploaded-file metadata in Redis. Records
// expire on their own; the store only has to keep the listing index
// honest.
package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/airforshare/backend/internal/config"
)

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
