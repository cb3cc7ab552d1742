package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/handlers/httperr"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/report"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

const dateLayout = "2006-01-02"

type adminReporter interface {
	AdminSummary(ctx context.Context, identity auth.Identity) (service.Summary, error)
	AdminUserStats(ctx context.Context, identity auth.Identity) ([]service.UserSummary, error)
	AdminReport(ctx context.Context, identity auth.Identity, query service.TransactionQuery) (*service.TransactionList, error)
}

// ReportHandlers serves the read-only administrator endpoints.
type ReportHandlers struct {
	ReportService adminReporter
	Now           func() time.Time
}

func NewReportHandlers(svc adminReporter) *ReportHandlers {
	return &ReportHandlers{ReportService: svc, Now: time.Now}
}

func (h *ReportHandlers) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "admin-summary",
		Method:      http.MethodGet,
		Path:        "/v1/admin/summary",
		Summary:     "Global totals",
		Tags:        []string{"Admin"},
		Security:    auth.Security,
	}, h.summary)

	huma.Register(api, huma.Operation{
		OperationID: "admin-user-stats",
		Method:      http.MethodGet,
		Path:        "/v1/admin/stats",
		Summary:     "Totals per user",
		Tags:        []string{"Admin"},
		Security:    auth.Security,
	}, h.stats)

	huma.Register(api, huma.Operation{
		OperationID: "admin-report",
		Method:      http.MethodGet,
		Path:        "/v1/admin/report",
		Summary:     "Transaction report",
		Description: "Transactions of all users, or of one user, in a date range with their totals.",
		Tags:        []string{"Admin"},
		Security:    auth.Security,
	}, h.report)
}

type AdminSummaryOutput struct {
	Body transaction.Summary
}

func (h *ReportHandlers) summary(ctx context.Context, _ *struct{}) (*AdminSummaryOutput, error) {
	identity, err := httperr.Identity(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := h.ReportService.AdminSummary(ctx, identity)
	if err != nil {
		return nil, httperr.FromService(err, "failed to summarize")
	}
	return &AdminSummaryOutput{Body: transaction.NewSummary(summary)}, nil
}

type UserStatsOutput struct {
	Body struct {
		Users []report.UserStats `json:"users" doc:"Totals per non-admin user, ordered by user ID"`
	}
}

func (h *ReportHandlers) stats(ctx context.Context, _ *struct{}) (*UserStatsOutput, error) {
	identity, err := httperr.Identity(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := h.ReportService.AdminUserStats(ctx, identity)
	if err != nil {
		return nil, httperr.FromService(err, "failed to load user stats")
	}

	out := &UserStatsOutput{}
	out.Body.Users = report.NewUserStats(stats)
	return out, nil
}

type AdminReportInput struct {
	From   string `query:"from" doc:"Inclusive lower date bound, defaults to today"`
	To     string `query:"to" doc:"Inclusive upper date bound, defaults to today"`
	UserID int64  `query:"userID" minimum:"0" doc:"Restrict to one user, absent for all users"`
	Type   string `query:"type" enum:"All,Income,Expense" doc:"Type filter, All or absent for both"`
}

type AdminReportOutput struct {
	Body transaction.ListTransactionsResponseBody
}

// parseAdminReportInput defaults each absent date bound to today.
func parseAdminReportInput(input *AdminReportInput, now time.Time) service.TransactionQuery {
	today := now.Format(dateLayout)
	from, to := input.From, input.To
	if from == "" {
		from = today
	}
	if to == "" {
		to = today
	}

	query := service.TransactionQuery{From: &from, To: &to, Type: input.Type}
	if input.UserID != 0 {
		userID := input.UserID
		query.UserID = &userID
	}
	return query
}

func (h *ReportHandlers) report(ctx context.Context, input *AdminReportInput) (*AdminReportOutput, error) {
	logData := logging.GetLogData(ctx)

	identity, err := httperr.Identity(ctx)
	if err != nil {
		return nil, err
	}

	list, err := h.ReportService.AdminReport(ctx, identity, parseAdminReportInput(input, h.Now()))
	if err != nil {
		return nil, httperr.FromService(err, "failed to build report")
	}

	if logData != nil {
		logData.AddData("transactionCount", len(list.Transactions))
	}

	return &AdminReportOutput{Body: transaction.ListTransactionsResponseBody{
		Transactions: transaction.NewTransactions(list.Transactions),
		Summary:      transaction.NewSummary(list.Summary),
	}}, nil
}
