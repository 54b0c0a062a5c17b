package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sohhamm/personal-finance-app/internal/core/domain"
	"github.com/sohhamm/personal-finance-app/internal/core/ports"
)

const auditCollection = "transaction_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection), now: time.Now}
}

// EnsureIndexes creates the lookup index used to read an owner's history.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(auditCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "transaction_id", Value: 1}, {Key: "occurred_at", Value: 1}},
		Options: options.Index().SetName("owner_transaction_time"),
	})
	if err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}
	return nil
}

// Insert persists one audit event to the transaction_events collection.
func (r *AuditRepository) Insert(ctx context.Context, event domain.AuditEvent) error {
	_, err := r.coll.InsertOne(ctx, auditDocument(event, r.now()))
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func auditDocument(event domain.AuditEvent, recordedAt time.Time) bson.M {
	doc := bson.M{
		"transaction_id": event.TransactionID,
		"owner_id":       event.OwnerID,
		"action":         string(event.Action),
		"occurred_at":    event.OccurredAt.UTC(),
		"recorded_at":    recordedAt.UTC(),
	}
	if event.Action != domain.AuditDeleted {
		doc["amount"] = event.Amount
	}
	return doc
}
