package report

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/handlers/httperr"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

// UserStats is the API model for one user's totals.
type UserStats struct {
	UserID           int64  `json:"userID"`
	Username         string `json:"username"`
	TransactionCount int    `json:"transactionCount"`
	transaction.Summary
}

func NewUserStat(s service.UserSummary) UserStats {
	return UserStats{
		UserID:           s.UserID,
		Username:         s.Username,
		TransactionCount: s.TransactionCount,
		Summary:          transaction.NewSummary(s.Summary),
	}
}

func NewUserStats(stats []service.UserSummary) []UserStats {
	converted := make([]UserStats, len(stats))
	for i, s := range stats {
		converted[i] = NewUserStat(s)
	}
	return converted
}

type UserDashboard struct {
	Month           transaction.Month         `json:"month" doc:"Current month"`
	MonthSummary    transaction.Summary       `json:"monthSummary" doc:"Totals of the current month"`
	Recent          []transaction.Transaction `json:"recent" doc:"Latest transactions"`
	AvailableMonths []transaction.Month       `json:"availableMonths" doc:"Months with transactions, newest first"`
}

type AdminDashboard struct {
	Summary      transaction.Summary       `json:"summary" doc:"Totals over all users"`
	Transactions []transaction.Transaction `json:"transactions" doc:"All transactions, newest first"`
	UserStats    []UserStats               `json:"userStats" doc:"Totals per user"`
}

// DashboardResponseBody holds exactly one of User or Admin, chosen by role.
type DashboardResponseBody struct {
	Role  string          `json:"role" enum:"user,admin"`
	User  *UserDashboard  `json:"user,omitempty"`
	Admin *AdminDashboard `json:"admin,omitempty"`
}

type DashboardOutput struct {
	Body DashboardResponseBody
}

type dashboardLoader interface {
	Dashboard(ctx context.Context, identity auth.Identity, now time.Time) (*service.Dashboard, error)
	AdminDashboard(ctx context.Context, identity auth.Identity) (*service.AdminDashboard, error)
}

// DashboardHandler handles GET /v1/dashboard.
type DashboardHandler struct {
	ReportService dashboardLoader
	Now           func() time.Time
}

func NewDashboardHandler(svc dashboardLoader) *DashboardHandler {
	return &DashboardHandler{ReportService: svc, Now: time.Now}
}

func (h *DashboardHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard",
		Method:      http.MethodGet,
		Path:        "/v1/dashboard",
		Summary:     "Dashboard",
		Description: "The landing view: current month and recent activity for users, global totals and per-user stats for the administrator.",
		Tags:        []string{"Reports"},
		Security:    auth.Security,
	}, h.handle)
}

func (h *DashboardHandler) handle(ctx context.Context, _ *struct{}) (*DashboardOutput, error) {
	logData := logging.GetLogData(ctx)

	identity, err := httperr.Identity(ctx)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("dashboardMs")
	}
	defer func() {
		if stopTimer != nil {
			stopTimer()
		}
	}()

	if identity.IsAdmin {
		dashboard, err := h.ReportService.AdminDashboard(ctx, identity)
		if err != nil {
			return nil, httperr.FromService(err, "failed to load dashboard")
		}
		return &DashboardOutput{Body: DashboardResponseBody{
			Role: "admin",
			Admin: &AdminDashboard{
				Summary:      transaction.NewSummary(dashboard.Summary),
				Transactions: transaction.NewTransactions(dashboard.Transactions),
				UserStats:    NewUserStats(dashboard.UserStats),
			},
		}}, nil
	}

	dashboard, err := h.ReportService.Dashboard(ctx, identity, h.Now())
	if err != nil {
		return nil, httperr.FromService(err, "failed to load dashboard")
	}
	return &DashboardOutput{Body: DashboardResponseBody{
		Role: "user",
		User: &UserDashboard{
			Month:           transaction.Month{Year: dashboard.Month.Year, Month: int(dashboard.Month.Month)},
			MonthSummary:    transaction.NewSummary(dashboard.MonthSummary),
			Recent:          transaction.NewTransactions(dashboard.Recent),
			AvailableMonths: transaction.NewMonths(dashboard.AvailableMonths),
		},
	}}, nil
}
