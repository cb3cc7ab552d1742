package actions

import (
	"context"

	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

var _ IAction = (*UpdateTransaction)(nil)

type UpdateTransaction struct {
	Update sqlconfig.TransactionUpdate
}

func (t *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Transactions.Update(ctx, &t.Update)
}
