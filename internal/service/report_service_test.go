package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/common"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

func newReportTestService(t *testing.T) (*ReportService, *sqlconfig.MockIUserTable, *sqlconfig.MockITransactionTable) {
	t.Helper()
	users := sqlconfig.NewMockIUserTable(t)
	transactions := sqlconfig.NewMockITransactionTable(t)
	return NewReportService(&storage.Storage{Users: users, Transactions: transactions}), users, transactions
}

func isMonthFilter(month string) interface{} {
	return mock.MatchedBy(func(f *sqlconfig.TransactionFilter) bool {
		return f.Month != nil && *f.Month == month && f.Limit == 0
	})
}

func TestMonthlySummary(t *testing.T) {
	svc, _, transactions := newReportTestService(t)
	transactions.EXPECT().List(mock.Anything, isMonthFilter("2024-01")).Return([]*sqlconfig.Transaction{
		storageRow(1, 2, "2024-01-05", "Income", "100"),
		storageRow(2, 2, "2024-01-20", "Expense", "40"),
	}, nil)

	summary, err := svc.MonthlySummary(context.Background(), alice, YearMonth{Year: 2024, Month: time.January})

	require.NoError(t, err)
	assertSummary(t, summary, "100", "40", "60")
}

func TestOverallSummary(t *testing.T) {
	svc, _, transactions := newReportTestService(t)
	transactions.EXPECT().List(mock.Anything, &sqlconfig.TransactionFilter{UserID: &alice.UserID}).
		Return([]*sqlconfig.Transaction{storageRow(1, 2, "2023-05-05", "Income", "7")}, nil)

	summary, err := svc.OverallSummary(context.Background(), alice)

	require.NoError(t, err)
	assertSummary(t, summary, "7", "0", "7")
}

func TestDashboard(t *testing.T) {
	svc, _, transactions := newReportTestService(t)
	now := time.Date(2024, 1, 25, 10, 0, 0, 0, time.UTC)

	transactions.EXPECT().List(mock.Anything, isMonthFilter("2024-01")).Return([]*sqlconfig.Transaction{
		storageRow(1, 2, "2024-01-05", "Income", "100"),
	}, nil)
	transactions.EXPECT().List(mock.Anything, mock.MatchedBy(func(f *sqlconfig.TransactionFilter) bool {
		return f.Limit == DefaultRecentLimit && f.Month == nil
	})).Return([]*sqlconfig.Transaction{
		storageRow(3, 2, "2024-01-22", "Expense", "3"),
		storageRow(1, 2, "2024-01-05", "Income", "100"),
	}, nil)
	transactions.EXPECT().ListMonths(mock.Anything, alice.UserID).Return([]string{"2024-01", "2023-12"}, nil)

	dashboard, err := svc.Dashboard(context.Background(), alice, now)

	require.NoError(t, err)
	assert.Equal(t, YearMonth{Year: 2024, Month: time.January}, dashboard.Month)
	assertSummary(t, dashboard.MonthSummary, "100", "0", "100")
	assert.Len(t, dashboard.Recent, 2)
	assert.Len(t, dashboard.AvailableMonths, 2)
}

func TestDashboard_RecordsLoadTiming(t *testing.T) {
	svc, _, transactions := newReportTestService(t)
	transactions.EXPECT().List(mock.Anything, mock.Anything).Return(nil, nil).Times(2)
	transactions.EXPECT().ListMonths(mock.Anything, alice.UserID).Return(nil, nil)

	logger, _ := test.NewNullLogger()
	logData := logging.NewLogData(logger)
	ctx := logging.WithLogData(context.Background(), logData)

	_, err := svc.Dashboard(ctx, alice, time.Now())

	require.NoError(t, err)
	assert.Contains(t, logData.Log().Data, "dashboardLoadMs")
}

func TestDashboard_PropagatesError(t *testing.T) {
	svc, _, transactions := newReportTestService(t)

	transactions.EXPECT().List(mock.Anything, mock.Anything).Return(nil, errors.New("database unavailable")).Maybe()
	transactions.EXPECT().ListMonths(mock.Anything, alice.UserID).Return(nil, nil).Maybe()

	_, err := svc.Dashboard(context.Background(), alice, time.Now())

	assert.EqualError(t, err, "database unavailable")
}

func TestAdminOperations_RequireAdmin(t *testing.T) {
	svc, _, _ := newReportTestService(t)
	ctx := context.Background()

	_, err := svc.AdminSummary(ctx, alice)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = svc.AdminUserStats(ctx, alice)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = svc.AdminReport(ctx, alice, TransactionQuery{})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = svc.AdminDashboard(ctx, alice)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAdminSummary(t *testing.T) {
	svc, _, transactions := newReportTestService(t)
	transactions.EXPECT().List(mock.Anything, &sqlconfig.TransactionFilter{ExcludeAdmins: true}).
		Return([]*sqlconfig.Transaction{
			storageRow(1, 2, "2024-01-05", "Income", "100"),
			storageRow(2, 3, "2024-01-06", "Expense", "25"),
		}, nil)

	summary, err := svc.AdminSummary(context.Background(), admin)

	require.NoError(t, err)
	assertSummary(t, summary, "100", "25", "75")
}

func TestAdminUserStats_IncludesUsersWithoutTransactions(t *testing.T) {
	svc, users, transactions := newReportTestService(t)
	users.EXPECT().List(mock.Anything, &sqlconfig.UserFilter{ExcludeAdmins: true}).Return([]*sqlconfig.User{
		{ID: 2, Username: "alice"},
		{ID: 3, Username: "bob"},
	}, nil)
	transactions.EXPECT().List(mock.Anything, &sqlconfig.TransactionFilter{ExcludeAdmins: true}).
		Return([]*sqlconfig.Transaction{storageRow(1, 2, "2024-01-05", "Income", "100")}, nil)

	stats, err := svc.AdminUserStats(context.Background(), admin)

	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 1, stats[0].TransactionCount)
	assert.Equal(t, "bob", stats[1].Username)
	assert.Equal(t, 0, stats[1].TransactionCount)
}

func TestAdminReport_FiltersByUser(t *testing.T) {
	svc, _, transactions := newReportTestService(t)
	bobID := int64(3)
	transactions.EXPECT().List(mock.Anything, mock.MatchedBy(func(f *sqlconfig.TransactionFilter) bool {
		return f.ExcludeAdmins && f.UserID != nil && *f.UserID == bobID && f.Type == nil
	})).Return([]*sqlconfig.Transaction{storageRow(4, 3, "2024-01-06", "Expense", "25")}, nil)

	report, err := svc.AdminReport(context.Background(), admin, TransactionQuery{UserID: &bobID, Type: "All"})

	require.NoError(t, err)
	assert.Len(t, report.Transactions, 1)
	assertSummary(t, report.Summary, "0", "25", "-25")
}

func TestAdminDashboard(t *testing.T) {
	svc, users, transactions := newReportTestService(t)
	users.EXPECT().List(mock.Anything, mock.Anything).Return([]*sqlconfig.User{{ID: 2, Username: "alice"}}, nil)
	transactions.EXPECT().List(mock.Anything, &sqlconfig.TransactionFilter{ExcludeAdmins: true}).
		Return([]*sqlconfig.Transaction{storageRow(1, 2, "2024-01-05", "Income", "100")}, nil).Times(2)

	dashboard, err := svc.AdminDashboard(context.Background(), admin)

	require.NoError(t, err)
	assertSummary(t, dashboard.Summary, "100", "0", "100")
	assert.Len(t, dashboard.Transactions, 1)
	require.Len(t, dashboard.UserStats, 1)
	assert.Equal(t, 1, dashboard.UserStats[0].TransactionCount)
}
