package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sohhamm/personal-finance-app/internal/core/domain"
	"github.com/sohhamm/personal-finance-app/internal/core/ports"
)

const (
	DefaultTrendMonths = 6
	MaxTrendMonths     = 24
	recentLimit        = 5
)

// OverviewService builds the dashboard summaries from the owner's ledger.
type OverviewService struct {
	summary ports.OverviewRepository
	txs     ports.TransactionRepository
	logger  zerolog.Logger
	now     func() time.Time
}

func NewOverviewService(summary ports.OverviewRepository, txs ports.TransactionRepository, logger zerolog.Logger) *OverviewService {
	return &OverviewService{summary: summary, txs: txs, logger: logger, now: time.Now}
}

// Overview returns the balance, this month's totals and spending per
// category, and the five latest transactions. The queries run concurrently.
func (s *OverviewService) Overview(ctx context.Context, ownerID string) (*ports.Overview, error) {
	from := monthStart(s.now())
	to := from.AddDate(0, 1, 0)
	out := &ports.Overview{Month: from}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		totals, err := s.summary.Totals(gctx, ownerID, from, to)
		out.Totals = totals
		return err
	})
	g.Go(func() error {
		spending, err := s.summary.SpendingByCategory(gctx, ownerID, from, to)
		out.Spending = spending
		return err
	})
	g.Go(func() error {
		recent, _, err := s.txs.List(gctx, ports.TransactionFilter{
			OwnerID: ownerID,
			Sort:    domain.SortLatest,
			Limit:   recentLimit,
		})
		out.Recent = recent
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("failed to build overview")
		return nil, err
	}

	if out.Spending == nil {
		out.Spending = []ports.CategorySpending{}
	}
	if out.Recent == nil {
		out.Recent = []domain.Transaction{}
	}
	return out, nil
}

// Trends returns one entry per calendar month, the current month first.
// months of 0 selects DefaultTrendMonths.
func (s *OverviewService) Trends(ctx context.Context, ownerID string, months int) ([]ports.MonthlyTrend, error) {
	if months == 0 {
		months = DefaultTrendMonths
	}
	if months < 1 || months > MaxTrendMonths {
		return nil, domain.NewValidationError("months", "must be between 1 and 24")
	}

	current := monthStart(s.now())
	from := current.AddDate(0, -(months - 1), 0)
	to := current.AddDate(0, 1, 0)

	rows, err := s.summary.MonthlyTrends(ctx, ownerID, from, to)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("failed to load monthly trends")
		return nil, err
	}

	byMonth := make(map[time.Time]ports.MonthlyTrend, len(rows))
	for _, r := range rows {
		byMonth[monthStart(r.Month)] = r
	}

	trends := make([]ports.MonthlyTrend, months)
	for i := range trends {
		m := current.AddDate(0, -i, 0)
		t := byMonth[m]
		t.Month = m
		trends[i] = t
	}
	return trends, nil
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
