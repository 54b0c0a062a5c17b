package ports

import (
	"context"
	"time"

	"github.com/sohhamm/personal-finance-app/internal/core/domain"
)

// OverviewTotals sums an owner's ledger. Balance covers every transaction;
// Income and Expenses cover one period only.
type OverviewTotals struct {
	Balance  float64
	Income   float64
	Expenses float64
}

// CategorySpending is the expense total of one category within a period.
type CategorySpending struct {
	Category string
	Spent    float64
}

// MonthlyTrend is the income and expense total of one calendar month (UTC).
type MonthlyTrend struct {
	Month    time.Time
	Income   float64
	Expenses float64
}

// OverviewRepository aggregates an owner's transactions. Periods are
// half-open: from <= transaction_date < to.
type OverviewRepository interface {
	Totals(ctx context.Context, ownerID string, from, to time.Time) (OverviewTotals, error)
	// SpendingByCategory orders by amount spent, largest first.
	SpendingByCategory(ctx context.Context, ownerID string, from, to time.Time) ([]CategorySpending, error)
	// MonthlyTrends returns only months that have transactions, newest first.
	MonthlyTrends(ctx context.Context, ownerID string, from, to time.Time) ([]MonthlyTrend, error)
}

// Overview is the dashboard summary for the current month.
type Overview struct {
	Month    time.Time
	Totals   OverviewTotals
	Spending []CategorySpending
	Recent   []domain.Transaction
}

type OverviewService interface {
	Overview(ctx context.Context, ownerID string) (*Overview, error)
	// Trends returns exactly months entries, newest first, zero-filled.
	Trends(ctx context.Context, ownerID string, months int) ([]MonthlyTrend, error)
}
