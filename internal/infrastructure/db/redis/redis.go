// Package redis backs Idempotency-Key claims with Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sohhamm/personal-finance-app/internal/core/ports"
)

const defaultTimeout = 5 * time.Second

type Config struct {
	Addr           string
	DB             int
	Timeout        time.Duration
	IdempotencyTTL time.Duration
}

// Store owns the Redis client used for idempotency claims.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// Open dials Redis and pings it once before returning.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	opts := clientOptions(cfg)
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return &Store{client: client, ttl: cfg.IdempotencyTTL}, nil
}

// clientOptions uses one timeout for dialing and for every command.
func clientOptions(cfg Config) *redis.Options {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
}

func (s *Store) Idempotency() ports.IdempotencyStore {
	return NewIdempotencyStore(s.client, s.ttl)
}

// Ping satisfies the readiness check signature.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
