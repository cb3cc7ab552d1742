package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/handlers/httperr"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

const dateLayout = "2006-01-02"

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	From string `query:"from" doc:"Inclusive lower date bound. When from and to are both absent the list covers today only."`
	To   string `query:"to" doc:"Inclusive upper date bound"`
	Type string `query:"type" enum:"All,Income,Expense" doc:"Type filter, All or absent for both"`
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Transactions []Transaction `json:"transactions" doc:"Matching transactions, newest first"`
	Summary      Summary       `json:"summary" doc:"Totals of the listed transactions"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionLister is the interface for listing transactions.
type transactionLister interface {
	List(ctx context.Context, identity auth.Identity, query service.TransactionQuery) (*service.TransactionList, error)
}

// ListTransactionsHandler handles GET /v1/transactions.
type ListTransactionsHandler struct {
	TransactionService transactionLister
	Now                func() time.Time
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc, Now: time.Now}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/transactions",
		Summary:     "List transactions",
		Description: "Returns the caller's transactions in a date range with their totals.",
		Tags:        []string{"Transactions"},
		Security:    auth.Security,
	}, h.handle)
}

// parseListTransactionsInput applies the request defaults: with neither
// bound given the range is today.
func parseListTransactionsInput(input *ListTransactionsInput, now time.Time) service.TransactionQuery {
	query := service.TransactionQuery{Type: input.Type}
	if input.From == "" && input.To == "" {
		today := now.Format(dateLayout)
		query.From = &today
		query.To = &today
		return query
	}
	if input.From != "" {
		query.From = &input.From
	}
	if input.To != "" {
		query.To = &input.To
	}
	return query
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)

	identity, err := httperr.Identity(ctx)
	if err != nil {
		return nil, err
	}
	query := parseListTransactionsInput(input, h.Now())

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listTransactionsMs")
	}
	list, err := h.TransactionService.List(ctx, identity, query)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperr.FromService(err, "failed to list transactions")
	}

	if logData != nil {
		logData.AddData("transactionCount", len(list.Transactions))
	}

	return &ListTransactionsOutput{Body: ListTransactionsResponseBody{
		Transactions: NewTransactions(list.Transactions),
		Summary:      NewSummary(list.Summary),
	}}, nil
}
