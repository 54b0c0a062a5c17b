package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sohhamm/personal-finance-app/internal/api/metrics"
	"github.com/sohhamm/personal-finance-app/internal/core/domain"
	"github.com/sohhamm/personal-finance-app/internal/core/ports"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// TransactionService implements the owner-scoped query engine and mutator.
type TransactionService struct {
	repo        ports.TransactionRepository
	idempotency ports.IdempotencyStore
	audit       ports.AuditRecorder
	logger      zerolog.Logger
	now         func() time.Time
}

// TransactionOption customises a TransactionService.
type TransactionOption func(*TransactionService)

// WithIdempotencyStore enables Idempotency-Key replay on Create.
func WithIdempotencyStore(store ports.IdempotencyStore) TransactionOption {
	return func(s *TransactionService) { s.idempotency = store }
}

// WithAuditRecorder forwards every successful mutation to recorder.
func WithAuditRecorder(recorder ports.AuditRecorder) TransactionOption {
	return func(s *TransactionService) { s.audit = recorder }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) TransactionOption {
	return func(s *TransactionService) { s.now = now }
}

func NewTransactionService(repo ports.TransactionRepository, logger zerolog.Logger, opts ...TransactionOption) *TransactionService {
	s := &TransactionService{repo: repo, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns one page of the owner's transactions.
func (s *TransactionService) List(ctx context.Context, ownerID string, in ports.ListTransactionsInput) (*ports.TransactionPage, error) {
	if !in.From.IsZero() && !in.To.IsZero() && in.From.After(in.To) {
		return nil, domain.NewValidationError("start_date", "must not be after end_date")
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	pageSize := in.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	// Past maxPage the offset would overflow; those pages are empty anyway.
	if maxPage := math.MaxInt / pageSize; page > maxPage {
		page = maxPage
	}

	items, total, err := s.repo.List(ctx, ports.TransactionFilter{
		OwnerID:  ownerID,
		Category: in.Category,
		Search:   in.Search,
		From:     in.From,
		To:       in.To,
		Sort:     domain.ParseSortOrder(in.Sort),
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("failed to list transactions")
		return nil, err
	}
	if items == nil {
		items = []domain.Transaction{}
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &ports.TransactionPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Get returns one of the owner's transactions. Ids that are not UUIDs are
// reported as not found.
func (s *TransactionService) Get(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	if !isID(id) {
		return nil, domain.ErrTransactionNotFound
	}
	t, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		s.logStoreError(err, ownerID, id, "failed to get transaction")
		return nil, err
	}
	return t, nil
}

// Create stores a new transaction for the owner. When an idempotency key is
// supplied and was already used by this owner, the earlier transaction is
// returned without side effects. A key whose first create is still running
// yields ErrRequestInProgress.
func (s *TransactionService) Create(ctx context.Context, ownerID string, in ports.CreateTransactionInput) (*ports.CreateTransactionResult, error) {
	if in.Amount == nil {
		return nil, domain.NewValidationError("amount", "is required")
	}
	kind, ok := domain.ParseTransactionKind(in.Kind)
	if !ok {
		return nil, domain.NewValidationError("transaction_type", "must be one of: income expense")
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	t := &domain.Transaction{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Counterparty: in.Counterparty,
		Category:     in.Category,
		Date:         in.Date,
		Amount:       *in.Amount,
		Kind:         kind,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	held, existing, err := s.reserve(ctx, ownerID, in.IdempotencyKey, t.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &ports.CreateTransactionResult{Transaction: existing, Replayed: true}, nil
	}

	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("failed to create transaction")
		if held {
			if rerr := s.idempotency.Release(ctx, ownerID, in.IdempotencyKey, t.ID); rerr != nil {
				s.logger.Warn().Err(rerr).Str("idempotency_key", in.IdempotencyKey).Msg("failed to release idempotency key")
			}
		}
		return nil, err
	}

	if held {
		if err := s.idempotency.Commit(ctx, ownerID, in.IdempotencyKey, t.ID); err != nil {
			s.logger.Warn().Err(err).Str("transaction_id", t.ID).Msg("failed to commit idempotency key")
		}
	}

	s.recorded(t, domain.AuditCreated, now)
	s.logger.Info().Str("owner_id", ownerID).Str("transaction_id", t.ID).Msg("transaction created")
	return &ports.CreateTransactionResult{Transaction: t}, nil
}

// Update applies patch to one of the owner's transactions in a single atomic
// statement and returns the merged row.
func (s *TransactionService) Update(ctx context.Context, ownerID, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	if !isID(id) {
		return nil, domain.ErrTransactionNotFound
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.Kind != nil {
		kind, _ := domain.ParseTransactionKind(string(*patch.Kind))
		patch.Kind = &kind
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	t, err := s.repo.Update(ctx, ownerID, id, patch, now)
	if err != nil {
		s.logStoreError(err, ownerID, id, "failed to update transaction")
		return nil, err
	}

	s.recorded(t, domain.AuditUpdated, now)
	s.logger.Info().Str("owner_id", ownerID).Str("transaction_id", id).Msg("transaction updated")
	return t, nil
}

// Delete removes one of the owner's transactions.
func (s *TransactionService) Delete(ctx context.Context, ownerID, id string) error {
	if !isID(id) {
		return domain.ErrTransactionNotFound
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		s.logStoreError(err, ownerID, id, "failed to delete transaction")
		return err
	}

	s.recorded(&domain.Transaction{ID: id, OwnerID: ownerID}, domain.AuditDeleted, s.now().UTC())
	s.logger.Info().Str("owner_id", ownerID).Str("transaction_id", id).Msg("transaction deleted")
	return nil
}

// reserve claims key for transactionID before the insert. It reports whether
// this create now holds the claim, or returns the transaction to replay.
// Store failures never fail the request.
func (s *TransactionService) reserve(ctx context.Context, ownerID, key, transactionID string) (bool, *domain.Transaction, error) {
	if key == "" || s.idempotency == nil {
		return false, nil, nil
	}

	// One retry covers a completed claim whose transaction was since deleted.
	for attempt := 0; attempt < 2; attempt++ {
		claimedID, completed, err := s.idempotency.Reserve(ctx, ownerID, key, transactionID)
		if err != nil {
			metrics.IdempotencyTotal.WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency reserve failed")
			return false, nil, nil
		}
		if claimedID == "" {
			metrics.IdempotencyTotal.WithLabelValues("miss").Inc()
			return true, nil, nil
		}
		if !completed {
			metrics.IdempotencyTotal.WithLabelValues("in_progress").Inc()
			return false, nil, domain.ErrRequestInProgress
		}

		t, err := s.repo.FindByID(ctx, ownerID, claimedID)
		if err == nil {
			metrics.IdempotencyTotal.WithLabelValues("hit").Inc()
			s.logger.Info().Str("idempotency_key", key).Str("transaction_id", claimedID).Msg("idempotent replay")
			return false, t, nil
		}
		if !errors.Is(err, domain.ErrTransactionNotFound) {
			s.logger.Error().Err(err).Str("transaction_id", claimedID).Msg("failed to load idempotent transaction")
			return false, nil, err
		}
		if err := s.idempotency.Release(ctx, ownerID, key, claimedID); err != nil {
			metrics.IdempotencyTotal.WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release stale idempotency key")
			return false, nil, nil
		}
	}

	// Another create took the key between release and retry.
	metrics.IdempotencyTotal.WithLabelValues("in_progress").Inc()
	return false, nil, domain.ErrRequestInProgress
}

func (s *TransactionService) recorded(t *domain.Transaction, action domain.AuditAction, at time.Time) {
	metrics.TransactionMutationsTotal.WithLabelValues(string(action)).Inc()
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		TransactionID: t.ID,
		OwnerID:       t.OwnerID,
		Action:        action,
		Amount:        t.Amount,
		OccurredAt:    at,
	})
}

func (s *TransactionService) logStoreError(err error, ownerID, id, msg string) {
	if errors.Is(err, domain.ErrTransactionNotFound) {
		return
	}
	s.logger.Error().Err(err).Str("owner_id", ownerID).Str("transaction_id", id).Msg(msg)
}

func isID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
