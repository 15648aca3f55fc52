// Package redis stores portal sessions in Redis, the default session backend
// of the server.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config is the Redis side of the session configuration.
type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
}

// Connect returns a client that has answered a ping within cfg.Timeout
// (five seconds when unset).
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := ping(ctx, client, cfg.Timeout); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func ping(ctx context.Context, client *redis.Client, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Ping reports whether the session store can reach Redis.
func (s *SessionStore) Ping(ctx context.Context) error {
	return ping(ctx, s.client, 0)
}
