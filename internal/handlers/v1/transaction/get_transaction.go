package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/handlers/httperr"
	"github.com/carson-networks/ledger-server/internal/service"
)

type GetTransactionOutput struct {
	Body Transaction
}

type transactionGetter interface {
	Get(ctx context.Context, identity auth.Identity, id int64) (*service.Transaction, error)
}

// GetTransactionHandler handles GET /v1/transactions/{id}.
type GetTransactionHandler struct {
	TransactionService transactionGetter
}

func NewGetTransactionHandler(svc transactionGetter) *GetTransactionHandler {
	return &GetTransactionHandler{TransactionService: svc}
}

func (h *GetTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-transaction",
		Method:      http.MethodGet,
		Path:        "/v1/transactions/{id}",
		Summary:     "Get transaction",
		Tags:        []string{"Transactions"},
		Security:    auth.Security,
	}, h.handle)
}

func (h *GetTransactionHandler) handle(ctx context.Context, input *TransactionIDInput) (*GetTransactionOutput, error) {
	identity, err := httperr.Identity(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := h.TransactionService.Get(ctx, identity, input.ID)
	if err != nil {
		return nil, httperr.FromService(err, "failed to get transaction")
	}
	return &GetTransactionOutput{Body: NewTransaction(*tx)}, nil
}
