package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sohhamm/personal-finance-app/internal/core/ports"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// pendingTTL bounds how long a crashed create can block its key.
	pendingTTL = 30 * time.Second

	pendingPrefix = "pending:"
	donePrefix    = "done:"
)

// reserveScript sets the claim only when the key is free and returns the
// existing claim otherwise.
var reserveScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if v then
	return v
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return false
`)

var commitScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
	return 1
end
return 0
`)

var releaseScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if v == ARGV[1] or v == ARGV[2] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// IdempotencyStore claims Idempotency-Keys in Redis.
// Key format: idempotency:<owner_id>:<key>
// Value format: pending:<transaction_id> or done:<transaction_id>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given client.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) ports.IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

func (s *IdempotencyStore) Reserve(ctx context.Context, ownerID, key, transactionID string) (string, bool, error) {
	v, err := reserveScript.Run(ctx, s.client,
		[]string{s.key(ownerID, key)},
		pendingPrefix+transactionID, pendingTTL.Milliseconds(),
	).Text()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency reserve: %w", err)
	}
	id, completed := parseClaim(v)
	return id, completed, nil
}

func (s *IdempotencyStore) Commit(ctx context.Context, ownerID, key, transactionID string) error {
	err := commitScript.Run(ctx, s.client,
		[]string{s.key(ownerID, key)},
		pendingPrefix+transactionID, donePrefix+transactionID, s.ttl.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("idempotency commit: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, ownerID, key, transactionID string) error {
	err := releaseScript.Run(ctx, s.client,
		[]string{s.key(ownerID, key)},
		pendingPrefix+transactionID, donePrefix+transactionID,
	).Err()
	if err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(ownerID, key string) string {
	return fmt.Sprintf("idempotency:%s:%s", ownerID, key)
}

// parseClaim splits a stored claim into its transaction id and state. Bare
// ids are treated as completed.
func parseClaim(v string) (string, bool) {
	if id, ok := strings.CutPrefix(v, pendingPrefix); ok {
		return id, false
	}
	return strings.TrimPrefix(v, donePrefix), true
}
