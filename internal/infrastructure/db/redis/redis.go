// Package redis backs the token deny-list with a shared Redis instance so
// revocations survive restarts and are visible to every node.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

// Config carries the connection settings for the deny-list store.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a client and verifies the instance is reachable before any
// revocation is trusted to it.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := newClient(cfg)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

func newClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
