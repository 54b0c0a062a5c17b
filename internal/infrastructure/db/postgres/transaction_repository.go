package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sohhamm/personal-finance-app/internal/core/domain"
	"github.com/sohhamm/personal-finance-app/internal/core/ports"
)

// TransactionRepository implements ports.TransactionRepository using Postgres.
// Every statement is constrained on user_id.
type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) ports.TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) List(ctx context.Context, f ports.TransactionFilter) ([]domain.Transaction, int64, error) {
	q := newListQuery(f)

	var total int64
	if err := r.db.QueryRow(ctx, q.countSQL(), q.args...).Scan(&total); err != nil {
		return nil, 0, storageError("count transactions", err)
	}
	if total == 0 {
		return []domain.Transaction{}, 0, nil
	}

	sql, args := q.pageSQL(f.Sort, f.Limit, f.Offset)
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, storageError("list transactions", err)
	}
	defer rows.Close()

	list := make([]domain.Transaction, 0, f.Limit)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, storageError("scan transaction", err)
		}
		list = append(list, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageError("list transactions", err)
	}
	return list, total, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	return oneTransaction(row, "find transaction")
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO transactions (id, user_id, recipient_sender, category, transaction_date, amount, transaction_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.OwnerID, t.Counterparty, t.Category, t.Date, t.Amount, string(t.Kind), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return storageError("create transaction", err)
	}
	return nil
}

// Update merges the patch in one statement: absent fields bind NULL and keep
// their column value. updated_at always moves forward.
func (r *TransactionRepository) Update(ctx context.Context, ownerID, id string, patch domain.TransactionPatch, at time.Time) (*domain.Transaction, error) {
	var kind *string
	if patch.Kind != nil {
		k := string(*patch.Kind)
		kind = &k
	}

	row := r.db.QueryRow(ctx, `
		UPDATE transactions SET
			recipient_sender = COALESCE($3, recipient_sender),
			category         = COALESCE($4, category),
			transaction_date = COALESCE($5, transaction_date),
			amount           = COALESCE($6, amount),
			transaction_type = COALESCE($7, transaction_type),
			updated_at       = GREATEST($8, updated_at + INTERVAL '1 microsecond')
		WHERE id = $1 AND user_id = $2
		RETURNING `+transactionColumns,
		id, ownerID, patch.Counterparty, patch.Category, patch.Date, patch.Amount, kind, at,
	)
	return oneTransaction(row, "update transaction")
}

func (r *TransactionRepository) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return storageError("delete transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func oneTransaction(row pgx.Row, op string) (*domain.Transaction, error) {
	t, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, storageError(op, err)
	}
	return t, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t    domain.Transaction
		kind string
	)
	if err := row.Scan(
		&t.ID, &t.OwnerID, &t.Counterparty, &t.Category, &t.Date,
		&t.Amount, &kind, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Kind = domain.TransactionKind(kind)
	return &t, nil
}
