package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

// ReportService computes summaries for users and administrators.
type ReportService struct {
	storage *storage.Storage
}

func NewReportService(store *storage.Storage) *ReportService {
	return &ReportService{storage: store}
}

// Dashboard is the landing view of a regular user.
type Dashboard struct {
	Month           YearMonth
	MonthSummary    Summary
	Recent          []Transaction
	AvailableMonths []YearMonth
}

// AdminDashboard is the landing view of the administrator.
type AdminDashboard struct {
	Summary      Summary
	Transactions []Transaction
	UserStats    []UserSummary
}

// MonthlySummary totals the caller's transactions in one month.
func (s *ReportService) MonthlySummary(ctx context.Context, identity auth.Identity, month YearMonth) (Summary, error) {
	prefix := month.String()
	rows, err := s.storage.Transactions.List(ctx, &sqlconfig.TransactionFilter{
		UserID: &identity.UserID,
		Month:  &prefix,
	})
	if err != nil {
		return Summary{}, err
	}
	return SummarizeMonth(transactionsFromStorage(rows), month), nil
}

// OverallSummary totals all of the caller's transactions.
func (s *ReportService) OverallSummary(ctx context.Context, identity auth.Identity) (Summary, error) {
	rows, err := s.storage.Transactions.List(ctx, &sqlconfig.TransactionFilter{UserID: &identity.UserID})
	if err != nil {
		return Summary{}, err
	}
	return Summarize(transactionsFromStorage(rows)), nil
}

// Dashboard loads the current month summary, the most recent transactions and
// the months with data concurrently.
func (s *ReportService) Dashboard(ctx context.Context, identity auth.Identity, now time.Time) (*Dashboard, error) {
	dashboard := &Dashboard{Month: YearMonthOf(now)}
	transactions := NewTransactionService(s.storage, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer timeLoad(ctx)()
		summary, err := s.MonthlySummary(gctx, identity, dashboard.Month)
		dashboard.MonthSummary = summary
		return err
	})
	g.Go(func() error {
		defer timeLoad(ctx)()
		recent, err := transactions.Recent(gctx, identity, DefaultRecentLimit, nil)
		dashboard.Recent = recent
		return err
	})
	g.Go(func() error {
		defer timeLoad(ctx)()
		months, err := transactions.AvailableMonths(gctx, identity)
		dashboard.AvailableMonths = months
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard, nil
}

// AdminSummary totals every non-admin user's transactions.
func (s *ReportService) AdminSummary(ctx context.Context, identity auth.Identity) (Summary, error) {
	if err := requireAdmin(identity); err != nil {
		return Summary{}, err
	}
	rows, err := s.storage.Transactions.List(ctx, &sqlconfig.TransactionFilter{ExcludeAdmins: true})
	if err != nil {
		return Summary{}, err
	}
	return Summarize(transactionsFromStorage(rows)), nil
}

// AdminUserStats returns per-user totals for every non-admin user.
func (s *ReportService) AdminUserStats(ctx context.Context, identity auth.Identity) ([]UserSummary, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	return userStats(ctx, s.storage)
}

// AdminReport lists transactions of all non-admin users, or of query.UserID,
// with their totals.
func (s *ReportService) AdminReport(ctx context.Context, identity auth.Identity, query TransactionQuery) (*TransactionList, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	filter, err := query.toFilter()
	if err != nil {
		return nil, err
	}
	filter.ExcludeAdmins = true

	rows, err := s.storage.Transactions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	transactions := transactionsFromStorage(rows)
	return &TransactionList{
		Transactions: transactions,
		Summary:      Summarize(transactions),
	}, nil
}

// AdminDashboard loads the global summary with all transactions and the
// per-user stats concurrently.
func (s *ReportService) AdminDashboard(ctx context.Context, identity auth.Identity) (*AdminDashboard, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}

	dashboard := &AdminDashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer timeLoad(ctx)()
		rows, err := s.storage.Transactions.List(gctx, &sqlconfig.TransactionFilter{ExcludeAdmins: true})
		if err != nil {
			return err
		}
		dashboard.Transactions = transactionsFromStorage(rows)
		dashboard.Summary = Summarize(dashboard.Transactions)
		return nil
	})
	g.Go(func() error {
		defer timeLoad(ctx)()
		stats, err := userStats(gctx, s.storage)
		dashboard.UserStats = stats
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard, nil
}

// timeLoad adds the duration of one concurrent load to the request's
// cumulative dashboardLoadMs timing.
func timeLoad(ctx context.Context) func() {
	if logData := logging.GetLogData(ctx); logData != nil {
		return logData.AddToExistingTiming("dashboardLoadMs")
	}
	return func() {}
}

func userStats(ctx context.Context, store *storage.Storage) ([]UserSummary, error) {
	userRows, err := store.Users.List(ctx, &sqlconfig.UserFilter{ExcludeAdmins: true})
	if err != nil {
		return nil, err
	}
	rows, err := store.Transactions.List(ctx, &sqlconfig.TransactionFilter{ExcludeAdmins: true})
	if err != nil {
		return nil, err
	}

	users := make([]User, len(userRows))
	for i, row := range userRows {
		users[i] = userFromStorage(row)
	}
	return SummarizeByUser(users, transactionsFromStorage(rows)), nil
}
