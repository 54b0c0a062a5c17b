package ports

import (
	"context"
	"time"

	"github.com/sohhamm/personal-finance-app/internal/core/domain"
)

// TransactionFilter carries every predicate of a list query. OwnerID is
// mandatory; the repository always constrains on it.
type TransactionFilter struct {
	OwnerID  string
	Category string    // optional: exact match
	Search   string    // optional: counterparty substring or exact amount text
	From     time.Time // optional: transaction_date >= From
	To       time.Time // optional: transaction_date <= To
	Sort     domain.SortOrder
	Limit    int
	Offset   int
}

// TransactionRepository defines persistence operations for transactions.
// Every method is scoped to an owner; rows of other owners behave as absent.
type TransactionRepository interface {
	// List returns one page of matching rows and the total match count.
	List(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, int64, error)
	FindByID(ctx context.Context, ownerID, id string) (*domain.Transaction, error)
	Create(ctx context.Context, t *domain.Transaction) error
	// Update applies the patch atomically and returns the merged row.
	Update(ctx context.Context, ownerID, id string, patch domain.TransactionPatch, at time.Time) (*domain.Transaction, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// IdempotencyStore claims Idempotency-Keys for creates. A claim starts out
// pending and becomes completed once the transaction is stored.
type IdempotencyStore interface {
	// Reserve claims key for transactionID. When another create already holds
	// the key it returns that create's transaction id and whether it completed;
	// claimedID is "" when the claim now belongs to transactionID.
	Reserve(ctx context.Context, ownerID, key, transactionID string) (claimedID string, completed bool, err error)
	// Commit marks the claim held by transactionID as completed.
	Commit(ctx context.Context, ownerID, key, transactionID string) error
	// Release drops the claim if it is still held by transactionID.
	Release(ctx context.Context, ownerID, key, transactionID string) error
}

// AuditRecorder accepts audit events for asynchronous persistence.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}
