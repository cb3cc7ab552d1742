package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/handlers/httperr"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

// TransactionBody is the request body for creating or editing a transaction.
type TransactionBody struct {
	Date     string  `json:"date" minLength:"1" doc:"Transaction date, e.g. 2024-01-05"`
	Type     string  `json:"type" enum:"Income,Expense" doc:"Cash flow direction"`
	Category string  `json:"category" minLength:"1" doc:"Category"`
	Amount   string  `json:"amount" doc:"Decimal amount greater than 0"`
	Note     *string `json:"note,omitempty" doc:"Optional note"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body TransactionBody
}

// CreateTransactionResponse is the response body for creating a transaction.
type CreateTransactionResponse struct {
	ID int64 `json:"id" doc:"Created transaction ID"`
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   CreateTransactionResponse
}

// transactionCreator is the interface for creating transactions.
type transactionCreator interface {
	Create(ctx context.Context, identity auth.Identity, in service.TransactionInput) (int64, error)
}

// CreateTransactionHandler handles POST /v1/transactions.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transactions",
		Summary:     "Create transaction",
		Description: "Records a new transaction owned by the caller.",
		Tags:        []string{"Transactions"},
		Security:    auth.Security,
	}, h.handle)
}

// parseTransactionBody converts the request body into service input. Amount
// is a plain string so malformed decimals are a 400 rather than a schema error.
func parseTransactionBody(body TransactionBody) (service.TransactionInput, error) {
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return service.TransactionInput{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	return service.TransactionInput{
		Date:     body.Date,
		Type:     service.TransactionType(body.Type),
		Category: body.Category,
		Amount:   amount,
		Note:     body.Note,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	identity, err := httperr.Identity(ctx)
	if err != nil {
		return nil, err
	}
	in, err := parseTransactionBody(input.Body)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createTransactionMs")
	}
	id, err := h.TransactionService.Create(ctx, identity, in)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperr.FromService(err, "failed to create transaction")
	}

	if logData != nil {
		logData.AddData("transactionID", id)
	}

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   CreateTransactionResponse{ID: id},
	}, nil
}
