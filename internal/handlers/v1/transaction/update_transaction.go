package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/handlers/httperr"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

// UpdateTransactionInput is the Huma input for editing a transaction.
type UpdateTransactionInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Transaction ID"`
	Body TransactionBody
}

type transactionUpdater interface {
	Update(ctx context.Context, identity auth.Identity, id int64, in service.TransactionInput) error
}

// UpdateTransactionHandler handles PUT /v1/transactions/{id}.
type UpdateTransactionHandler struct {
	TransactionService transactionUpdater
}

func NewUpdateTransactionHandler(svc transactionUpdater) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{TransactionService: svc}
}

func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "update-transaction",
		Method:        http.MethodPut,
		Path:          "/v1/transactions/{id}",
		Summary:       "Edit transaction",
		Description:   "Replaces date, type, category, amount and note of one of the caller's transactions.",
		Tags:          []string{"Transactions"},
		Security:      auth.Security,
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*struct{}, error) {
	identity, err := httperr.Identity(ctx)
	if err != nil {
		return nil, err
	}
	in, err := parseTransactionBody(input.Body)
	if err != nil {
		return nil, err
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("transactionID", input.ID)
	}

	if err := h.TransactionService.Update(ctx, identity, input.ID, in); err != nil {
		return nil, httperr.FromService(err, "failed to update transaction")
	}
	return nil, nil
}
