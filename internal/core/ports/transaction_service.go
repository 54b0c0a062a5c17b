package ports

import (
	"context"
	"time"

	"github.com/sohhamm/personal-finance-app/internal/core/domain"
)

// ListTransactionsInput carries the raw list parameters of one caller.
type ListTransactionsInput struct {
	Category string
	Search   string
	From     time.Time
	To       time.Time
	Sort     string
	Page     int
	PageSize int
}

// TransactionPage is one page of an owner's transactions.
type TransactionPage struct {
	Items      []domain.Transaction
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// CreateTransactionInput carries the fields of a new transaction. Amount is a
// pointer so that a missing amount can be told apart from zero.
type CreateTransactionInput struct {
	Counterparty   string
	Category       string
	Date           time.Time
	Amount         *float64
	Kind           string
	IdempotencyKey string
}

// CreateTransactionResult is returned by Create.
type CreateTransactionResult struct {
	Transaction *domain.Transaction
	// Replayed is true when the Idempotency-Key matched an earlier create.
	Replayed bool
}

// TransactionService defines owner-scoped reads and writes. ownerID is the
// identity produced by the auth gate and is never taken from a payload.
type TransactionService interface {
	List(ctx context.Context, ownerID string, in ListTransactionsInput) (*TransactionPage, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Transaction, error)
	Create(ctx context.Context, ownerID string, in CreateTransactionInput) (*CreateTransactionResult, error)
	Update(ctx context.Context, ownerID, id string, patch domain.TransactionPatch) (*domain.Transaction, error)
	Delete(ctx context.Context, ownerID, id string) error
}
