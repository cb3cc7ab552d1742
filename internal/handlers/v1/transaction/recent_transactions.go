package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/handlers/httperr"
	"github.com/carson-networks/ledger-server/internal/service"
)

type RecentTransactionsInput struct {
	Limit int `query:"limit" minimum:"0" maximum:"100" doc:"Number of transactions, default 5"`
	Year  int `query:"year" minimum:"0" doc:"Restrict to this year, requires month"`
	Month int `query:"month" minimum:"0" maximum:"12" doc:"Restrict to this month, requires year"`
}

type RecentTransactionsOutput struct {
	Body struct {
		Transactions []Transaction `json:"transactions" doc:"Latest transactions, newest first"`
	}
}

type recentLister interface {
	Recent(ctx context.Context, identity auth.Identity, limit int, month *service.YearMonth) ([]service.Transaction, error)
}

// RecentTransactionsHandler handles GET /v1/transactions/recent.
type RecentTransactionsHandler struct {
	TransactionService recentLister
}

func NewRecentTransactionsHandler(svc recentLister) *RecentTransactionsHandler {
	return &RecentTransactionsHandler{TransactionService: svc}
}

func (h *RecentTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "recent-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/transactions/recent",
		Summary:     "Recent transactions",
		Tags:        []string{"Transactions"},
		Security:    auth.Security,
	}, h.handle)
}

// parseMonth returns nil when neither year nor month is given.
func parseMonth(year, month int) (*service.YearMonth, error) {
	if year == 0 && month == 0 {
		return nil, nil
	}
	if year == 0 || month == 0 {
		return nil, huma.Error400BadRequest("year and month must be given together")
	}
	return &service.YearMonth{Year: year, Month: time.Month(month)}, nil
}

func (h *RecentTransactionsHandler) handle(ctx context.Context, input *RecentTransactionsInput) (*RecentTransactionsOutput, error) {
	identity, err := httperr.Identity(ctx)
	if err != nil {
		return nil, err
	}
	month, err := parseMonth(input.Year, input.Month)
	if err != nil {
		return nil, err
	}

	recent, err := h.TransactionService.Recent(ctx, identity, input.Limit, month)
	if err != nil {
		return nil, httperr.FromService(err, "failed to list recent transactions")
	}

	out := &RecentTransactionsOutput{}
	out.Body.Transactions = NewTransactions(recent)
	return out, nil
}
