// Package mongo stores the transaction audit trail in MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sohhamm/personal-finance-app/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	appName        = "personal-finance-api"
)

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Store owns the client and the audit database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to MongoDB and checks that a primary is reachable.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Database == "" {
		return nil, errors.New("mongo: database name is required")
	}
	opts, timeout := clientOptions(cfg)

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

func clientOptions(cfg Config) (*options.ClientOptions, time.Duration) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout), timeout
}

func (s *Store) Audit() ports.AuditRepository {
	return NewAuditRepository(s.db)
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	return EnsureIndexes(ctx, s.db)
}

// Ping satisfies the readiness check signature.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
