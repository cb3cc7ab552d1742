package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/handlers/httperr"
	"github.com/carson-networks/ledger-server/internal/logging"
)

// TransactionIDInput addresses one transaction by path.
type TransactionIDInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Transaction ID"`
}

type transactionDeleter interface {
	Delete(ctx context.Context, identity auth.Identity, id int64) error
}

// DeleteTransactionHandler handles DELETE /v1/transactions/{id}.
type DeleteTransactionHandler struct {
	TransactionService transactionDeleter
}

func NewDeleteTransactionHandler(svc transactionDeleter) *DeleteTransactionHandler {
	return &DeleteTransactionHandler{TransactionService: svc}
}

func (h *DeleteTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-transaction",
		Method:        http.MethodDelete,
		Path:          "/v1/transactions/{id}",
		Summary:       "Delete transaction",
		Tags:          []string{"Transactions"},
		Security:      auth.Security,
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteTransactionHandler) handle(ctx context.Context, input *TransactionIDInput) (*struct{}, error) {
	identity, err := httperr.Identity(ctx)
	if err != nil {
		return nil, err
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("transactionID", input.ID)
	}

	if err := h.TransactionService.Delete(ctx, identity, input.ID); err != nil {
		return nil, httperr.FromService(err, "failed to delete transaction")
	}
	return nil, nil
}
