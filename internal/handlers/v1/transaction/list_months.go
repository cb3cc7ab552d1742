package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/handlers/httperr"
	"github.com/carson-networks/ledger-server/internal/service"
)

type Month struct {
	Year  int `json:"year"`
	Month int `json:"month" minimum:"1" maximum:"12"`
}

type ListMonthsOutput struct {
	Body struct {
		Months []Month `json:"months" doc:"Months with at least one transaction, newest first"`
	}
}

type monthLister interface {
	AvailableMonths(ctx context.Context, identity auth.Identity) ([]service.YearMonth, error)
}

// ListMonthsHandler handles GET /v1/transactions/months.
type ListMonthsHandler struct {
	TransactionService monthLister
}

func NewListMonthsHandler(svc monthLister) *ListMonthsHandler {
	return &ListMonthsHandler{TransactionService: svc}
}

func (h *ListMonthsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transaction-months",
		Method:      http.MethodGet,
		Path:        "/v1/transactions/months",
		Summary:     "Months with transactions",
		Tags:        []string{"Transactions"},
		Security:    auth.Security,
	}, h.handle)
}

func NewMonths(months []service.YearMonth) []Month {
	converted := make([]Month, len(months))
	for i, ym := range months {
		converted[i] = Month{Year: ym.Year, Month: int(ym.Month)}
	}
	return converted
}

func (h *ListMonthsHandler) handle(ctx context.Context, _ *struct{}) (*ListMonthsOutput, error) {
	identity, err := httperr.Identity(ctx)
	if err != nil {
		return nil, err
	}

	months, err := h.TransactionService.AvailableMonths(ctx, identity)
	if err != nil {
		return nil, httperr.FromService(err, "failed to list months")
	}

	out := &ListMonthsOutput{}
	out.Body.Months = NewMonths(months)
	return out, nil
}
