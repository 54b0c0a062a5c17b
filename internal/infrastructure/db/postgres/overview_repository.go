package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sohhamm/personal-finance-app/internal/core/ports"
)

// OverviewRepository implements ports.OverviewRepository with aggregate
// queries over the transactions table. Months are truncated in UTC.
type OverviewRepository struct {
	db *pgxpool.Pool
}

func NewOverviewRepository(db *pgxpool.Pool) ports.OverviewRepository {
	return &OverviewRepository{db: db}
}

func (r *OverviewRepository) Totals(ctx context.Context, ownerID string, from, to time.Time) (ports.OverviewTotals, error) {
	var t ports.OverviewTotals
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN transaction_type = 'income' THEN amount ELSE -amount END), 0),
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'income' AND transaction_date >= $2 AND transaction_date < $3), 0),
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'expense' AND transaction_date >= $2 AND transaction_date < $3), 0)
		FROM transactions
		WHERE user_id = $1`,
		ownerID, from, to,
	).Scan(&t.Balance, &t.Income, &t.Expenses)
	if err != nil {
		return ports.OverviewTotals{}, storageError("overview totals", err)
	}
	return t, nil
}

func (r *OverviewRepository) SpendingByCategory(ctx context.Context, ownerID string, from, to time.Time) ([]ports.CategorySpending, error) {
	rows, err := r.db.Query(ctx, `
		SELECT category, SUM(amount) AS spent
		FROM transactions
		WHERE user_id = $1
		  AND transaction_type = 'expense'
		  AND transaction_date >= $2 AND transaction_date < $3
		GROUP BY category
		ORDER BY spent DESC, category`,
		ownerID, from, to,
	)
	if err != nil {
		return nil, storageError("spending by category", err)
	}
	defer rows.Close()

	list := []ports.CategorySpending{}
	for rows.Next() {
		var s ports.CategorySpending
		if err := rows.Scan(&s.Category, &s.Spent); err != nil {
			return nil, storageError("scan spending", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("spending by category", err)
	}
	return list, nil
}

func (r *OverviewRepository) MonthlyTrends(ctx context.Context, ownerID string, from, to time.Time) ([]ports.MonthlyTrend, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			date_trunc('month', transaction_date AT TIME ZONE 'UTC') AS month,
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date < $3
		GROUP BY month
		ORDER BY month DESC`,
		ownerID, from, to,
	)
	if err != nil {
		return nil, storageError("monthly trends", err)
	}
	defer rows.Close()

	var list []ports.MonthlyTrend
	for rows.Next() {
		var m ports.MonthlyTrend
		if err := rows.Scan(&m.Month, &m.Income, &m.Expenses); err != nil {
			return nil, storageError("scan trend", err)
		}
		m.Month = m.Month.UTC()
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("monthly trends", err)
	}
	return list, nil
}
